package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/logger"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/columns"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/utils"
	"github.com/go-gota/gota/dataframe"
)

// ErrMalformedTable is returned when the input is not a usable table.
var ErrMalformedTable = errors.New("input is not a table")

const completedPrefix = "concl"

// IsCompleted reports whether a lower-cased status counts as concluded.
func IsCompleted(status string) bool {
	return strings.HasPrefix(status, completedPrefix)
}

// Normalize canonicalizes the labels of raw, fills in missing fields and
// derives SLA and flags. Bad cells degrade to absent values; only a
// malformed table is an error.
func Normalize(raw dataframe.DataFrame, log *logger.Logger) (*types.Table, error) {
	const component = "Normalizer"

	if raw.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, raw.Err)
	}

	df, dropped := columns.Canonicalize(raw)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, df.Err)
	}
	for _, d := range dropped {
		log.Warn(component, "Duplicate column after canonicalization dropped: label=%q", d)
	}

	cols := utils.IndexColumns(&df)
	var missing []string
	for _, c := range columns.Expected {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		log.Debug(component, "Synthesized absent columns: %v", missing)
	}

	table := &types.Table{
		Columns: append([]string(nil), columns.Order...),
		Records: make([]types.Record, df.Nrow()),
	}

	var badDates int
	for i := 0; i < df.Nrow(); i++ {
		rec, bad := normalizeRow(cols, i)
		badDates += bad
		table.Records[i] = rec
	}

	log.Info(component, "Normalization completed: rows=%d sourceColumns=%d synthesized=%d unparseableDates=%d",
		table.Len(), len(raw.Names()), len(missing), badDates)

	return table, nil
}

func normalizeRow(cols utils.Columns, i int) (types.Record, int) {
	get := func(col string) types.Opt[string] {
		return cols.Get(col, i)
	}

	var bad int
	date := func(col string) types.Opt[time.Time] {
		cell := get(col)
		d := utils.ParseDate(cell)
		if cell.Valid && !d.Valid {
			bad++
		}
		return d
	}

	rec := types.Record{
		RespBU:                get(types.ColRespBU),
		Cliente:               get(types.ColCliente),
		Categoria:             get(types.ColCategoria),
		DetalheQuestionamento: get(types.ColDetalheQuestionamento),
		RespSM:                get(types.ColRespSM),
		Observacoes:           get(types.ColObservacoes),
		ConclusaoQualitativa:  get(types.ColConclusaoQualitativa),
	}

	// 1. dates
	rec.DataSolicitacao = date(types.ColDataSolicitacao)
	rec.DataAbertura = date(types.ColDataAbertura)
	rec.DataConclusao = date(types.ColDataConclusao)

	// 2. text columns are stringified first, so absent reads "nan"
	rec.Status = strings.ToLower(strings.TrimSpace(types.Text(get(types.ColStatus))))
	rec.Tipo = strings.TrimSpace(types.Text(get(types.ColTipo)))
	rec.BU = strings.TrimSpace(types.Text(get(types.ColBU)))

	// 3-4. SLA depends on the lowered status
	rec.SLADiasUteis = SLA(rec.Status, rec.DataSolicitacao, rec.DataConclusao)

	// 5-6. flags
	rec.FlagResolucao1Dev = IsCompleted(rec.Status)
	rec.FlagReprocesso = strings.Contains(strings.ToLower(types.Text(rec.ConclusaoQualitativa)), "reprocesso")

	// 7. JIRA is never absent
	rec.Jira = types.Text(get(types.ColJira))
	if rec.Jira == types.MissingText {
		rec.Jira = ""
	}

	// 8. quantities
	rec.QtdeQuest = utils.ParseNumber(get(types.ColQtdeQuest))
	rec.QtdeQuestJira = utils.ParseNumber(get(types.ColQtdeQuestJira))

	return rec, bad
}

// SLA is the business-day count between solicitation and conclusion for a
// completed request, absent otherwise.
func SLA(status string, solicitacao, conclusao types.Opt[time.Time]) types.Opt[int] {
	if !IsCompleted(status) || !solicitacao.Valid || !conclusao.Valid {
		return types.None[int]()
	}
	return types.Some(utils.BusinessDays(solicitacao.Value, conclusao.Value))
}
