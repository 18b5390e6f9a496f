package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/columns"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixture() *types.Table {
	return &types.Table{
		Columns: columns.Order,
		Records: []types.Record{
			{BU: "BU2", Status: "aberto", Jira: "J-3"},
			{BU: "BU1", Status: "concluido", Jira: "J-1", QtdeQuest: types.Some(2.0), SLADiasUteis: types.Some(4), FlagResolucao1Dev: true},
			{BU: "BU1", Status: "concluido", Jira: ""},
			{BU: "BU1", Status: "aberto", Jira: "J-2",
				DataSolicitacao: types.Some(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))},
		},
	}
}

func TestPivotByBUStatus(t *testing.T) {
	assert.Equal(t, []PivotRow{
		{BU: "BU1", Status: "aberto", Qtde: 1},
		{BU: "BU1", Status: "concluido", Qtde: 2},
		{BU: "BU2", Status: "aberto", Qtde: 1},
	}, PivotByBUStatus(fixture()))
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, fixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetTabela, SheetBaseKPI, SheetAnalises, SheetAcompanham}, f.GetSheetList())

	rows, err := f.GetRows(SheetTabela)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, columns.Order, rows[0])

	header := map[string]int{}
	for i, c := range rows[0] {
		header[c] = i
	}
	second := rows[2]
	assert.Equal(t, "BU1", second[header[types.ColBU]])
	assert.Equal(t, "4", second[header[types.ColSLADiasUteis]])
	assert.Equal(t, "1", second[header[types.ColFlagResolucao1Dev]])

	pivot, err := f.GetRows(SheetBaseKPI)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"BU", "STATUS", "QTDE"},
		{"BU1", "aberto", "1"},
		{"BU1", "concluido", "2"},
		{"BU2", "aberto", "1"},
	}, pivot)

	notes, err := f.GetRows(SheetAnalises)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Placeholder", notes[0][0])
}
