package utils

import (
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Columns indexes the series of df by name so per-row lookups do not scan
// the header every time.
type Columns map[string]series.Series

func IndexColumns(df *dataframe.DataFrame) Columns {
	cols := make(Columns)
	if df == nil {
		return cols
	}
	for _, name := range df.Names() {
		cols[name] = df.Col(name)
	}
	return cols
}

// Get returns the cell at rowIdx of col. Missing columns, NA elements and
// empty strings are absent.
func (c Columns) Get(col string, rowIdx int) types.Opt[string] {
	s, ok := c[col]
	if !ok || rowIdx < 0 || rowIdx >= s.Len() {
		return types.None[string]()
	}
	e := s.Elem(rowIdx)
	if e.IsNA() {
		return types.None[string]()
	}
	v := e.String()
	if v == "" {
		return types.None[string]()
	}
	return types.Some(v)
}
