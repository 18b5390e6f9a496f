package utils

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/xuri/excelize/v2"
)

// Excel serials above this value are past the year 9999.
const maxExcelSerial = 2958465

var dateLayouts = []string{
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
}

// ParseDate accepts Excel serial numbers, day-first Brazilian dates and ISO
// dates. Anything else is absent.
func ParseDate(cell types.Opt[string]) types.Opt[time.Time] {
	if !cell.Valid {
		return types.None[time.Time]()
	}
	s := strings.TrimSpace(cell.Value)
	if s == "" {
		return types.None[time.Time]()
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if !(serial > 0 && serial <= maxExcelSerial) {
			return types.None[time.Time]()
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return types.None[time.Time]()
		}
		return types.Some(t.Round(time.Second))
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return types.Some(t)
		}
	}
	return types.None[time.Time]()
}

// ParseNumber reads a plain float first and falls back to the Brazilian
// "1.234,56" form. Anything else is absent.
func ParseNumber(cell types.Opt[string]) types.Opt[float64] {
	if !cell.Valid {
		return types.None[float64]()
	}
	s := strings.TrimSpace(cell.Value)
	if s == "" {
		return types.None[float64]()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return finite(v)
	}
	if !strings.Contains(s, ",") {
		return types.None[float64]()
	}
	// Remove thousands separator (.) and replace decimal separator (,) with (.)
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return types.None[float64]()
	}
	return finite(v)
}

// finite drops the NaN and infinity spellings strconv accepts.
func finite(v float64) types.Opt[float64] {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return types.None[float64]()
	}
	return types.Some(v)
}
