package solicitacoes

import (
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/logger"
	"github.com/farxc/acompanhamento-kpi/internal/metrics"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/dashboard"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/export"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/filter"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/kpi"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/normalize"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
)

// Result is everything one upload produces. The table is shared read-only
// by every consumer; the filtered views are copies.
type Result struct {
	RunID     string              `json:"run_id"`
	Table     *types.Table        `json:"-"`
	Filters   filter.Filters      `json:"filters"`
	Mask      filter.Mask         `json:"-"`
	Summary   kpi.Summary         `json:"summary"`
	Dashboard dashboard.Dashboard `json:"dashboard"`
	Options   filter.Options      `json:"options"`
	Pivot     []export.PivotRow   `json:"pivot"`
}

// Filtered returns a copy of the table restricted to the active filters.
func (r *Result) Filtered() *types.Table {
	return r.Mask.Apply(r.Table)
}

// Process runs the whole pipeline over one raw table: normalization, the
// filter mask, the KPI summary and the dashboard series. It keeps no state
// between calls.
func Process(raw dataframe.DataFrame, f filter.Filters, opts dashboard.Options, log *logger.Logger) (*Result, error) {
	const component = "Pipeline"

	start := time.Now()
	runID := uuid.NewString()

	table, err := normalize.Normalize(raw, log)
	if err != nil {
		metrics.ObserveUpload(time.Since(start), 0, metrics.OutcomeError)
		log.Error(component, "Normalization failed: run=%s error=%v", runID, err)
		return nil, err
	}

	res := Recompute(table, f, opts)
	res.RunID = runID

	elapsed := time.Since(start)
	metrics.ObserveUpload(elapsed, table.Len(), metrics.OutcomeSuccess)
	log.Info(component, "Run completed: run=%s rows=%d selected=%d filtered=%t elapsed=%s",
		runID, table.Len(), res.Summary.TotalSolicitacoes, f.Active(), elapsed)

	return res, nil
}

// Recompute derives the filtered views of an already normalized table. It
// is what a filter change triggers.
func Recompute(table *types.Table, f filter.Filters, opts dashboard.Options) *Result {
	mask := f.Build(table)
	return &Result{
		Table:     table,
		Filters:   f,
		Mask:      mask,
		Summary:   kpi.Summarize(table, mask),
		Dashboard: dashboard.Build(table, mask, opts),
		Options:   filter.BuildOptions(table),
		Pivot:     export.PivotByBUStatus(table),
	}
}
