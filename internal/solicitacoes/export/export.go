package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/xuri/excelize/v2"
)

const (
	FileName    = "Solicitacoes_Tratada_e_Bases.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetTabela     = "Solicitações Tratada"
	SheetBaseKPI    = "Base KPI"
	SheetAnalises   = "Análises para Dashboard"
	SheetAcompanham = "Acompanhamento SM"
)

var placeholders = []struct {
	sheet string
	text  string
}{
	{SheetAnalises, "Este espaço será usado para análises e dashboards."},
	{SheetAcompanham, "Aba Acompanhamento SM - modelos e gráficos serão gerados no dashboard."},
}

// PivotRow is the number of JIRA cells for one (BU, STATUS) pair.
type PivotRow struct {
	BU     string `json:"bu"`
	Status string `json:"status"`
	Qtde   int    `json:"qtde"`
}

// PivotByBUStatus counts JIRA values grouped by BU and STATUS, sorted by BU
// then STATUS. JIRA is never absent after normalization, so every row counts.
func PivotByBUStatus(t *types.Table) []PivotRow {
	type key struct{ bu, status string }
	counts := map[key]int{}
	for _, r := range t.Records {
		counts[key{r.BU, r.Status}]++
	}

	out := make([]PivotRow, 0, len(counts))
	for k, n := range counts {
		out = append(out, PivotRow{BU: k.bu, Status: k.status, Qtde: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BU != out[j].BU {
			return out[i].BU < out[j].BU
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// WriteWorkbook writes the normalized table, the KPI pivot and the two
// placeholder sheets as an xlsx document.
func WriteWorkbook(w io.Writer, t *types.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetTabela); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeTable(f, t); err != nil {
		return err
	}
	if err := writePivot(f, PivotByBUStatus(t)); err != nil {
		return err
	}
	for _, p := range placeholders {
		if _, err := f.NewSheet(p.sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", p.sheet, err)
		}
		if err := setRow(f, p.sheet, 1, []interface{}{"Placeholder"}); err != nil {
			return err
		}
		if err := setRow(f, p.sheet, 2, []interface{}{p.text}); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, t *types.Table) error {
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := setRow(f, SheetTabela, 1, header); err != nil {
		return err
	}

	for i, r := range t.Records {
		row := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = cellValue(r, c)
		}
		if err := setRow(f, SheetTabela, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writePivot(f *excelize.File, pivot []PivotRow) error {
	if _, err := f.NewSheet(SheetBaseKPI); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", SheetBaseKPI, err)
	}
	if err := setRow(f, SheetBaseKPI, 1, []interface{}{"BU", "STATUS", "QTDE"}); err != nil {
		return err
	}
	for i, p := range pivot {
		if err := setRow(f, SheetBaseKPI, i+2, []interface{}{p.BU, p.Status, p.Qtde}); err != nil {
			return err
		}
	}
	return nil
}

// cellValue keeps numbers and dates typed in the workbook; absent values are
// left as empty cells.
func cellValue(r types.Record, col string) interface{} {
	switch col {
	case types.ColDataSolicitacao:
		return timeOrNil(r.DataSolicitacao)
	case types.ColDataAbertura:
		return timeOrNil(r.DataAbertura)
	case types.ColDataConclusao:
		return timeOrNil(r.DataConclusao)
	case types.ColQtdeQuest:
		return floatOrNil(r.QtdeQuest)
	case types.ColQtdeQuestJira:
		return floatOrNil(r.QtdeQuestJira)
	case types.ColSLADiasUteis:
		if r.SLADiasUteis.Valid {
			return r.SLADiasUteis.Value
		}
		return nil
	case types.ColFlagResolucao1Dev:
		return boolToInt(r.FlagResolucao1Dev)
	case types.ColFlagReprocesso:
		return boolToInt(r.FlagReprocesso)
	}
	if v := r.Cell(col); v.Valid {
		return v.Value
	}
	return nil
}

func timeOrNil(o types.Opt[time.Time]) interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}

func floatOrNil(o types.Opt[float64]) interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}
