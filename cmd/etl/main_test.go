package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/logger"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/dashboard"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/export"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "BU;Resp. SM;Data Solicitacao;Data Conclusao;Tipo;Status;JIRA\n" +
	"BU1;Ana;07/07/2025;11/07/2025;Questionamento;Concluido;J-1\n" +
	"BU2;Bia;08/07/2025;;Incidente;Aberto;J-2\n"

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solicitacoes.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))
	return path
}

func TestRunPrintsSummary(t *testing.T) {
	var out bytes.Buffer
	err := run(options{file: writeSample(t)}, &out, logger.Nop())
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, "v1", summary["version"])
	assert.Equal(t, 2.0, summary["TOTAL_SOLICITACOES"])
	assert.Equal(t, 0.5, summary["TAXA_RESOLUCAO_1_DEV"])
}

func TestRunWithFiltersAndExport(t *testing.T) {
	exportPath := filepath.Join(t.TempDir(), "out", export.FileName)

	var out bytes.Buffer
	err := run(options{
		file:      writeSample(t),
		filters:   filter.Filters{BU: "BU1"},
		export:    exportPath,
		full:      true,
		dashboard: dashboard.Options{Now: time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)},
	}, &out, logger.Nop())
	require.NoError(t, err)

	var result struct {
		Summary map[string]any `json:"summary"`
		Pivot   []any          `json:"pivot"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 1.0, result.Summary["TOTAL_SOLICITACOES"])
	assert.Len(t, result.Pivot, 2)

	f, err := excelize.OpenFile(exportPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetTabela)
	require.NoError(t, err)
	assert.Len(t, rows, 3, "export holds the whole table")
}

func TestRunWritesFilteredCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "filtrado.csv")

	err := run(options{
		file:    writeSample(t),
		filters: filter.Filters{Status: "aberto"},
		csv:     csvPath,
	}, &bytes.Buffer{}, logger.Nop())
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "BU,RESP_BU,DATA_SOLICITACAO"))
	assert.True(t, strings.HasPrefix(lines[1], "BU2,"))
}

func TestRunMissingFile(t *testing.T) {
	err := run(options{file: filepath.Join(t.TempDir(), "nope.csv")}, &bytes.Buffer{}, logger.Nop())
	assert.Error(t, err)
}

func TestMonitorTracksPeaks(t *testing.T) {
	m := NewMonitor()
	m.update(logger.Nop())
	stats := m.Stop()
	assert.Positive(t, stats.PeakGoroutines)
}
