package kpi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/columns"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/filter"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(records ...types.Record) *types.Table {
	return &types.Table{Columns: columns.Order, Records: records}
}

func date(d int) types.Opt[time.Time] {
	return types.Some(time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC))
}

func TestFirstPassResolutionRate(t *testing.T) {
	tbl := table(
		types.Record{Jira: "J-1", Status: "concluido"},
		types.Record{Jira: "J-1", Status: "aberto"},
		types.Record{Jira: "J-2", Status: "aberto"},
		types.Record{Jira: "", Status: "concluido"},
	)

	assert.Equal(t, types.Some(0.5), FirstPassResolutionRate(tbl, nil))
	assert.Equal(t, types.Some(0.0), FirstPassResolutionRate(tbl, filter.Mask{false, true, true, false}))
	assert.False(t, FirstPassResolutionRate(tbl, filter.Mask{false, false, false, true}).Valid, "no tickets selected")

	noJira := &types.Table{Columns: []string{types.ColStatus}, Records: tbl.Records}
	assert.False(t, FirstPassResolutionRate(noJira, nil).Valid)
}

func TestReprocessRate(t *testing.T) {
	tbl := table(
		types.Record{Tipo: "Questionamento", FlagReprocesso: true},
		types.Record{Tipo: "questionamento"},
		types.Record{Tipo: "QUESTIONAMENTO"},
		types.Record{Tipo: "Incidente", FlagReprocesso: true},
	)

	assert.Equal(t, types.Some(0.3333), ReprocessRate(tbl, nil))
	assert.False(t, ReprocessRate(tbl, filter.Mask{false, false, false, true}).Valid)

	noFlag := &types.Table{Columns: []string{types.ColTipo}, Records: tbl.Records}
	assert.False(t, ReprocessRate(noFlag, nil).Valid)
}

func TestAverageSLA(t *testing.T) {
	tbl := table(
		types.Record{SLADiasUteis: types.Some(3)},
		types.Record{SLADiasUteis: types.Some(4)},
		types.Record{SLADiasUteis: types.None[int]()},
	)
	assert.Equal(t, types.Some(3.5), AverageSLA(tbl, nil))
	assert.Equal(t, types.Some(4.0), AverageSLA(tbl, filter.Mask{false, true, true}))
	assert.False(t, AverageSLA(tbl, filter.Mask{false, false, true}).Valid)
}

func TestAverageSLAFallsBackToCalendarDays(t *testing.T) {
	tbl := &types.Table{
		Columns: []string{types.ColDataSolicitacao, types.ColDataConclusao},
		Records: []types.Record{
			{DataSolicitacao: date(7), DataConclusao: date(14)},
			{DataSolicitacao: date(7), DataConclusao: date(8)},
			{DataSolicitacao: date(7)},
		},
	}
	assert.Equal(t, types.Some(4.0), AverageSLA(tbl, nil))
}

func TestSummarizeEmptySelection(t *testing.T) {
	tbl := table(types.Record{Jira: "J-1", Status: "concluido", Tipo: "Questionamento", SLADiasUteis: types.Some(2)})

	s := Summarize(tbl, filter.Mask{false})
	assert.Equal(t, Version, s.Version)
	assert.Zero(t, s.TotalSolicitacoes)
	assert.False(t, s.SLAMedioDiasUteis.Valid)
	assert.False(t, s.TaxaResolucao1Dev.Valid)
	assert.False(t, s.PctReprocessoQuestionamento.Valid)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": "v1",
		"SLA_MEDIO_DIAS_UTEIS": null,
		"TAXA_RESOLUCAO_1_DEV": null,
		"PCT_REPROCESSO_QUESTIONAMENTO": null,
		"TOTAL_SOLICITACOES": 0
	}`, string(out))
}

func TestSummarize(t *testing.T) {
	tbl := table(
		types.Record{Jira: "J-1", Status: "concluido", Tipo: "Questionamento", SLADiasUteis: types.Some(2), FlagReprocesso: true},
		types.Record{Jira: "J-2", Status: "aberto", Tipo: "Questionamento"},
	)

	s := Summarize(tbl, nil)
	assert.Equal(t, 2, s.TotalSolicitacoes)
	assert.Equal(t, types.Some(2.0), s.SLAMedioDiasUteis)
	assert.Equal(t, types.Some(0.5), s.TaxaResolucao1Dev)
	assert.Equal(t, types.Some(0.5), s.PctReprocessoQuestionamento)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.3333, Round(1.0/3.0, 4))
	assert.Equal(t, 2.0, Round(2.5, 0))
	assert.Equal(t, 4.0, Round(3.5, 0))
	assert.Equal(t, 1.67, Round(5.0/3.0, 2))
}
