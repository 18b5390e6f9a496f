package types

import (
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Canonical column names of the normalized table.
const (
	ColBU                    = "BU"
	ColRespBU                = "RESP_BU"
	ColDataSolicitacao       = "DATA_SOLICITACAO"
	ColCliente               = "CLIENTE"
	ColCategoria             = "CATEGORIA"
	ColDetalheQuestionamento = "DETALHE_QUESTIONAMENTO"
	ColTipo                  = "TIPO"
	ColRespSM                = "RESP_SM"
	ColQtdeQuest             = "QTDE_QUEST"
	ColJira                  = "JIRA"
	ColQtdeQuestJira         = "QTDE_QUEST_JIRA"
	ColDataAbertura          = "DATA_ABERTURA"
	ColDataConclusao         = "DATA_CONCLUSAO"
	ColObservacoes           = "OBSERVACOES"
	ColStatus                = "STATUS"
	ColConclusaoQualitativa  = "CONCLUSAO_QUALITATIVA"

	ColSLADiasUteis      = "SLA_DIAS_UTEIS"
	ColFlagResolucao1Dev = "FLAG_RESOLUCAO_1_DEV"
	ColFlagReprocesso    = "FLAG_REPROCESSO"
)

// MissingText is the textual form of an absent cell. Text columns that are
// stringified before trimming (BU, TIPO, STATUS) carry it as a value.
const MissingText = "nan"

// NA is how an absent cell is written into a gota string series.
const NA = "NaN"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Record is one normalized service request.
type Record struct {
	BU                    string
	RespBU                Opt[string]
	DataSolicitacao       Opt[time.Time]
	Cliente               Opt[string]
	Categoria             Opt[string]
	DetalheQuestionamento Opt[string]
	Tipo                  string
	RespSM                Opt[string]
	QtdeQuest             Opt[float64]
	Jira                  string
	QtdeQuestJira         Opt[float64]
	DataAbertura          Opt[time.Time]
	DataConclusao         Opt[time.Time]
	Observacoes           Opt[string]
	Status                string
	ConclusaoQualitativa  Opt[string]

	SLADiasUteis      Opt[int]
	FlagResolucao1Dev bool
	FlagReprocesso    bool
}

// Table is the normalized dataset. Columns lists the fields that were
// produced, in output order; consumers treat a Table as read-only.
type Table struct {
	Columns []string
	Records []Record
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Has reports whether col is part of the table.
func (t *Table) Has(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Rows returns a new table holding copies of the records at idx.
func (t *Table) Rows(idx []int) *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Records: make([]Record, 0, len(idx)),
	}
	for _, i := range idx {
		if i >= 0 && i < len(t.Records) {
			out.Records = append(out.Records, t.Records[i])
		}
	}
	return out
}

// Cell returns the textual value of col for the record. Absent values and
// unknown columns are reported as invalid.
func (r Record) Cell(col string) Opt[string] {
	switch col {
	case ColBU:
		return Some(r.BU)
	case ColRespBU:
		return r.RespBU
	case ColDataSolicitacao:
		return FormatDate(r.DataSolicitacao)
	case ColCliente:
		return r.Cliente
	case ColCategoria:
		return r.Categoria
	case ColDetalheQuestionamento:
		return r.DetalheQuestionamento
	case ColTipo:
		return Some(r.Tipo)
	case ColRespSM:
		return r.RespSM
	case ColQtdeQuest:
		return FormatNumber(r.QtdeQuest)
	case ColJira:
		return Some(r.Jira)
	case ColQtdeQuestJira:
		return FormatNumber(r.QtdeQuestJira)
	case ColDataAbertura:
		return FormatDate(r.DataAbertura)
	case ColDataConclusao:
		return FormatDate(r.DataConclusao)
	case ColObservacoes:
		return r.Observacoes
	case ColStatus:
		return Some(r.Status)
	case ColConclusaoQualitativa:
		return r.ConclusaoQualitativa
	case ColSLADiasUteis:
		if !r.SLADiasUteis.Valid {
			return None[string]()
		}
		return Some(strconv.Itoa(r.SLADiasUteis.Value))
	case ColFlagResolucao1Dev:
		return Some(flagText(r.FlagResolucao1Dev))
	case ColFlagReprocesso:
		return Some(flagText(r.FlagReprocesso))
	}
	return None[string]()
}

// DataFrame renders the table as a string-typed gota DataFrame with absent
// cells as NA, the same shape a raw upload has.
func (t *Table) DataFrame() dataframe.DataFrame {
	records := make([][]string, 0, t.Len()+1)
	records = append(records, append([]string(nil), t.Columns...))
	for _, r := range t.Records {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = r.Cell(col).Or(NA)
		}
		records = append(records, row)
	}
	return LoadStrings(records)
}

// LoadStrings loads a header plus rows as string columns. A header without
// rows gives a zero-row frame instead of the error LoadRecords reports.
func LoadStrings(records [][]string) dataframe.DataFrame {
	if len(records) == 1 && len(records[0]) > 0 {
		cols := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			cols[i] = series.New([]string{}, series.String, name)
		}
		return dataframe.New(cols...)
	}
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

// Text mirrors how a missing value is stringified upstream: absent becomes
// "nan".
func Text(o Opt[string]) string {
	if !o.Valid {
		return MissingText
	}
	return o.Value
}

func FormatDate(o Opt[time.Time]) Opt[string] {
	if !o.Valid {
		return None[string]()
	}
	t := o.Value
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return Some(t.Format(dateLayout))
	}
	return Some(t.Format(dateTimeLayout))
}

func FormatNumber(o Opt[float64]) Opt[string] {
	if !o.Valid {
		return None[string]()
	}
	return Some(strconv.FormatFloat(o.Value, 'f', -1, 64))
}

func flagText(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
