package filter

import (
	"sort"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
)

// All is the select-box entry meaning "no filter".
const All = "Todos"

// Mask selects rows of a table. A nil Mask selects every row; rows past the
// end of a shorter mask are not selected.
type Mask []bool

// Selected reports whether row i is selected.
func (m Mask) Selected(i int) bool {
	if m == nil {
		return true
	}
	return i >= 0 && i < len(m) && m[i]
}

// Count is the number of selected rows of t.
func (m Mask) Count(t *types.Table) int {
	if m == nil {
		return t.Len()
	}
	n := 0
	for i := 0; i < t.Len(); i++ {
		if m.Selected(i) {
			n++
		}
	}
	return n
}

// Indexes lists the selected row positions of t.
func (m Mask) Indexes(t *types.Table) []int {
	idx := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if m.Selected(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Apply returns a copy of t holding only the selected rows.
func (m Mask) Apply(t *types.Table) *types.Table {
	if t == nil {
		return &types.Table{}
	}
	return t.Rows(m.Indexes(t))
}

// Filters are the four dashboard equality filters. Empty or "Todos" leaves
// the field unconstrained.
type Filters struct {
	BU     string `json:"bu,omitempty"`
	RespSM string `json:"resp_sm,omitempty"`
	Status string `json:"status,omitempty"`
	Tipo   string `json:"tipo,omitempty"`
}

func active(v string) bool {
	return v != "" && v != All
}

// Active reports whether any filter constrains the rows.
func (f Filters) Active() bool {
	return active(f.BU) || active(f.RespSM) || active(f.Status) || active(f.Tipo)
}

// Build returns the AND of the active filters over t.
func (f Filters) Build(t *types.Table) Mask {
	mask := make(Mask, t.Len())
	for i, r := range t.Records {
		mask[i] = f.Match(r)
	}
	return mask
}

// Match reports whether a single record passes every active filter.
func (f Filters) Match(r types.Record) bool {
	if active(f.BU) && r.BU != f.BU {
		return false
	}
	if active(f.RespSM) && (!r.RespSM.Valid || r.RespSM.Value != f.RespSM) {
		return false
	}
	if active(f.Status) && r.Status != f.Status {
		return false
	}
	if active(f.Tipo) && r.Tipo != f.Tipo {
		return false
	}
	return true
}

// Options holds the choices offered by each filter: "Todos" followed by the
// sorted distinct values present in the table.
type Options struct {
	BU     []string `json:"bu"`
	RespSM []string `json:"resp_sm"`
	Status []string `json:"status"`
	Tipo   []string `json:"tipo"`
}

func BuildOptions(t *types.Table) Options {
	bu := map[string]bool{}
	resp := map[string]bool{}
	status := map[string]bool{}
	tipo := map[string]bool{}

	for _, r := range t.Records {
		bu[r.BU] = true
		if r.RespSM.Valid {
			resp[r.RespSM.Value] = true
		}
		status[r.Status] = true
		tipo[r.Tipo] = true
	}

	opts := Options{
		BU:     []string{All},
		RespSM: []string{All},
		Status: []string{All},
		Tipo:   []string{All},
	}
	if t.Has(types.ColBU) {
		opts.BU = withAll(bu)
	}
	if t.Has(types.ColRespSM) {
		opts.RespSM = withAll(resp)
	}
	if t.Has(types.ColStatus) {
		opts.Status = withAll(status)
	}
	if t.Has(types.ColTipo) {
		opts.Tipo = withAll(tipo)
	}
	return opts
}

func withAll(set map[string]bool) []string {
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return append([]string{All}, vals...)
}
