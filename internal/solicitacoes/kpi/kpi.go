package kpi

import (
	"math"
	"strings"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/filter"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/normalize"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/utils"
	"gonum.org/v1/gonum/stat"
)

// Version identifies the key set of Summary.
const Version = "v1"

const questionamento = "questionamento"

// Summary is the fixed KPI contract handed to the summary cards.
type Summary struct {
	Version                     string             `json:"version"`
	SLAMedioDiasUteis           types.Opt[float64] `json:"SLA_MEDIO_DIAS_UTEIS"`
	TaxaResolucao1Dev           types.Opt[float64] `json:"TAXA_RESOLUCAO_1_DEV"`
	PctReprocessoQuestionamento types.Opt[float64] `json:"PCT_REPROCESSO_QUESTIONAMENTO"`
	TotalSolicitacoes           int                `json:"TOTAL_SOLICITACOES"`
}

// Summarize computes every KPI over the rows selected by m.
func Summarize(t *types.Table, m filter.Mask) Summary {
	return Summary{
		Version:                     Version,
		SLAMedioDiasUteis:           AverageSLA(t, m),
		TaxaResolucao1Dev:           FirstPassResolutionRate(t, m),
		PctReprocessoQuestionamento: ReprocessRate(t, m),
		TotalSolicitacoes:           Total(t, m),
	}
}

// AverageSLA is the mean business-day SLA of the selected rows, rounded to
// two decimals. A table without the derived SLA column falls back to
// calendar days between solicitation and conclusion.
func AverageSLA(t *types.Table, m filter.Mask) types.Opt[float64] {
	if t == nil {
		return types.None[float64]()
	}
	derived := t.Has(types.ColSLADiasUteis)

	var values []float64
	for i, r := range t.Records {
		if !m.Selected(i) {
			continue
		}
		if derived {
			if r.SLADiasUteis.Valid {
				values = append(values, float64(r.SLADiasUteis.Value))
			}
			continue
		}
		// TODO: the fallback counts calendar days while the derived column
		// counts business days; align once the expected unit is confirmed.
		if r.DataSolicitacao.Valid && r.DataConclusao.Valid {
			values = append(values, float64(utils.CalendarDays(r.DataSolicitacao.Value, r.DataConclusao.Value)))
		}
	}
	if len(values) == 0 {
		return types.None[float64]()
	}
	return types.Some(Round(stat.Mean(values, nil), 2))
}

// FirstPassResolutionRate is the share of distinct JIRA tickets among the
// selected rows that have at least one completed row.
func FirstPassResolutionRate(t *types.Table, m filter.Mask) types.Opt[float64] {
	if t == nil || !t.Has(types.ColJira) {
		return types.None[float64]()
	}
	all := map[string]bool{}
	completed := map[string]bool{}
	for i, r := range t.Records {
		if !m.Selected(i) || r.Jira == "" {
			continue
		}
		all[r.Jira] = true
		if normalize.IsCompleted(strings.ToLower(r.Status)) {
			completed[r.Jira] = true
		}
	}
	if len(all) == 0 {
		return types.None[float64]()
	}
	return types.Some(Round(float64(len(completed))/float64(len(all)), 4))
}

// ReprocessRate is the share of selected "Questionamento" rows flagged as
// reprocess.
func ReprocessRate(t *types.Table, m filter.Mask) types.Opt[float64] {
	if t == nil || !t.Has(types.ColTipo) || !t.Has(types.ColFlagReprocesso) {
		return types.None[float64]()
	}
	var total, reproc int
	for i, r := range t.Records {
		if !m.Selected(i) || strings.ToLower(r.Tipo) != questionamento {
			continue
		}
		total++
		if r.FlagReprocesso {
			reproc++
		}
	}
	if total == 0 {
		return types.None[float64]()
	}
	return types.Some(Round(float64(reproc)/float64(total), 4))
}

// Total is the number of selected rows.
func Total(t *types.Table, m filter.Mask) int {
	return m.Count(t)
}

// Round rounds half to even at the given number of decimals.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
