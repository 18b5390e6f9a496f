package files

import (
	"bytes"
	"strings"
	"testing"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// workbook builds an xlsx in memory with rows written from A1 on sheet.
func workbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestReadWorkbookUsesSecondRowAsHeader(t *testing.T) {
	buf := workbook(t, DefaultSheet, [][]interface{}{
		{"Relatório de solicitações"},
		{"BU", "Status", "Qtia Quest"},
		{"BU1", "Concluído", 2},
		{nil, nil, nil},
		{"BU2", nil, 3},
	})

	df, err := Read(buf, "planilha.xlsx", ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"BU", "Status", "Qtia Quest"}, df.Names())
	require.Equal(t, 2, df.Nrow(), "blank rows are skipped")
	assert.Equal(t, "BU1", df.Col("BU").Elem(0).String())
	assert.Equal(t, "2", df.Col("Qtia Quest").Elem(0).String())
	assert.True(t, df.Col("Status").Elem(1).IsNA())
}

func TestReadWorkbookMatchesSheetLoosely(t *testing.T) {
	buf := workbook(t, "Solicitacoes", [][]interface{}{
		{"BU"},
		{"BU1"},
	})

	df, err := ReadWorkbook(buf, ReadOptions{HeaderRow: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, df.Nrow())
}

func TestReadWorkbookErrors(t *testing.T) {
	buf := workbook(t, "Outra", [][]interface{}{{"BU"}, {"x"}})
	_, err := ReadWorkbook(buf, ReadOptions{})
	assert.ErrorIs(t, err, ErrSheetNotFound)

	buf = workbook(t, DefaultSheet, [][]interface{}{{"titulo"}})
	_, err = ReadWorkbook(buf, ReadOptions{})
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Read(strings.NewReader(""), "dados.txt", ReadOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadRows(t *testing.T) {
	df, err := LoadRows(
		[]string{"STATUS", "JIRA", "STATUS"},
		[][]string{
			{"aberto"},
			{"", "  ", ""},
			{"concluido", "J-1", "x", "extra"},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"STATUS", "JIRA", "STATUS.1"}, df.Names())
	require.Equal(t, 2, df.Nrow())
	assert.True(t, df.Col("JIRA").Elem(0).IsNA())
	assert.Equal(t, "J-1", df.Col("JIRA").Elem(1).String())
	assert.Equal(t, "x", df.Col("STATUS.1").Elem(1).String())

	_, err = LoadRows(nil, nil)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadCSV(t *testing.T) {
	text := "BU;Status;Observações\nBU1;Concluído;\"texto; com separador\"\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	require.NoError(t, err)

	df, err := Read(strings.NewReader(encoded), "export.CSV", ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"BU", "Status", "Observações"}, df.Names())
	require.Equal(t, 1, df.Nrow())
	assert.Equal(t, "Concluído", df.Col("Status").Elem(0).String())
	assert.Equal(t, "texto; com separador", df.Col("Observações").Elem(0).String())
}

func TestNAMarker(t *testing.T) {
	df, err := LoadRows([]string{"A"}, [][]string{{"v"}, {"", "w"}})
	require.NoError(t, err)
	require.Equal(t, 1, df.Nrow(), "cells past the header width do not count")
	assert.Equal(t, "v", df.Col("A").Elem(0).String())
	assert.NotEqual(t, types.NA, df.Col("A").Elem(0).String())
}

func TestHeaderOnlyInputIsAnEmptyTable(t *testing.T) {
	df, err := LoadRows([]string{"BU", "STATUS"}, [][]string{{"", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"BU", "STATUS"}, df.Names())
	assert.Zero(t, df.Nrow())

	buf := workbook(t, DefaultSheet, [][]interface{}{
		{"Relatório de solicitações"},
		{"BU", "Status"},
	})
	df, err = ReadWorkbook(buf, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"BU", "Status"}, df.Names())
	assert.Zero(t, df.Nrow())

	df, err = Read(strings.NewReader("BU;Status\n"), "vazio.csv", ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"BU", "Status"}, df.Names())
	assert.Zero(t, df.Nrow())
}
