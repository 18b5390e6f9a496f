// Package dashboard aggregates the normalized table into the data series
// behind the summary cards and charts. Nothing here renders; every function
// is a pure read of the table, a mask and a reference date.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/filter"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/utils"
	"gonum.org/v1/gonum/stat"
)

// TrackingStart is the first month shown by the monthly series and counted
// by the request totals.
var TrackingStart = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

const monthLayout = "2006-01"

// Strings treated as "no ticket" when splitting the monthly SLA.
var noJiraTokens = map[string]bool{
	"": true, "nan": true, "none": true, "na": true, "n/a": true, "null": true, "-": true, ".": true,
}

type Options struct {
	Now   time.Time
	Since time.Time
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Since.IsZero() {
		o.Since = TrackingStart
	}
	return o
}

type SLASplit struct {
	SemJira types.Opt[float64] `json:"sem_jira"`
	ComJira types.Opt[float64] `json:"com_jira"`
}

type Counter struct {
	Unicos     int `json:"unicos"`
	NovosNoMes int `json:"novos_no_mes"`
}

type Totals struct {
	DesdeInicio types.Opt[int]     `json:"desde_inicio"`
	MesAtual    types.Opt[int]     `json:"mes_atual"`
	MediaMensal types.Opt[float64] `json:"media_mensal"`
}

type Cards struct {
	SLA          SLASplit `json:"sla"`
	Clientes     Counter  `json:"clientes"`
	Categorias   Counter  `json:"categorias"`
	Solicitacoes Totals   `json:"solicitacoes"`
}

type Point struct {
	Month      string  `json:"month"`
	Key        string  `json:"key"`
	Quantidade float64 `json:"quantidade"`
}

type StatusCount struct {
	Status     string `json:"status"`
	Quantidade int    `json:"quantidade"`
}

type SLAPoint struct {
	Month    string             `json:"month"`
	ComJira  bool               `json:"com_jira"`
	SLAMedio types.Opt[float64] `json:"sla_medio"`
}

type MonthCount struct {
	Month      string `json:"month"`
	Quantidade int    `json:"quantidade"`
}

type MonthlySLASeries struct {
	SLA          []SLAPoint   `json:"sla"`
	Solicitacoes []MonthCount `json:"solicitacoes"`
}

// Dashboard bundles every series for one filtered view.
type Dashboard struct {
	Cards         Cards            `json:"cards"`
	MonthlyByBU   []Point          `json:"monthly_by_bu"`
	MonthlyByTipo []Point          `json:"monthly_by_tipo"`
	Status        []StatusCount    `json:"status"`
	MonthlySLA    MonthlySLASeries `json:"monthly_sla"`
}

func Build(t *types.Table, m filter.Mask, opts Options) Dashboard {
	opts = opts.withDefaults()
	return Dashboard{
		Cards:         BuildCards(t, m, opts),
		MonthlyByBU:   MonthlyByBU(t, m, opts),
		MonthlyByTipo: MonthlyByTipo(t, m, opts),
		Status:        StatusDistribution(t, m),
		MonthlySLA:    MonthlySLA(t, m, opts),
	}
}

// SLAByJira averages the derived SLA of the selected rows separately for
// rows without and with a JIRA ticket.
func SLAByJira(t *types.Table, m filter.Mask) SLASplit {
	var sem, com []float64
	for i, r := range t.Records {
		if !m.Selected(i) || !r.SLADiasUteis.Valid {
			continue
		}
		v := float64(r.SLADiasUteis.Value)
		if strings.TrimSpace(r.Jira) == "" {
			sem = append(sem, v)
		} else {
			com = append(com, v)
		}
	}
	return SLASplit{SemJira: mean(sem), ComJira: mean(com)}
}

func BuildCards(t *types.Table, m filter.Mask, opts Options) Cards {
	opts = opts.withDefaults()
	return Cards{
		SLA:          SLAByJira(t, m),
		Clientes:     distinctSince(t, m, opts.Now, func(r types.Record) types.Opt[string] { return r.Cliente }),
		Categorias:   distinctSince(t, m, opts.Now, func(r types.Record) types.Opt[string] { return r.Categoria }),
		Solicitacoes: totals(t, m, opts),
	}
}

// distinctSince counts values seen since July 1st of now's year and values
// whose first solicitation falls in now's month.
func distinctSince(t *types.Table, m filter.Mask, now time.Time, key func(types.Record) types.Opt[string]) Counter {
	julho := time.Date(now.Year(), time.July, 1, 0, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	first := map[string]time.Time{}

	for i, r := range t.Records {
		if !m.Selected(i) {
			continue
		}
		k := key(r)
		if !k.Valid || !r.DataSolicitacao.Valid {
			continue
		}
		d := r.DataSolicitacao.Value
		if !d.Before(julho) {
			seen[k.Value] = true
		}
		if f, ok := first[k.Value]; !ok || d.Before(f) {
			first[k.Value] = d
		}
	}

	c := Counter{Unicos: len(seen)}
	for _, d := range first {
		if sameMonth(d, now) {
			c.NovosNoMes++
		}
	}
	return c
}

func totals(t *types.Table, m filter.Mask, opts Options) Totals {
	var total, month float64
	perMonth := map[string]int{}

	for i, r := range t.Records {
		if !m.Selected(i) || !inRange(r, opts.Since) {
			continue
		}
		d := r.DataSolicitacao.Value
		perMonth[d.Format(monthLayout)]++
		q := r.QtdeQuest.Or(0)
		total += q
		if sameMonth(d, opts.Now) {
			month += q
		}
	}
	if len(perMonth) == 0 {
		return Totals{}
	}

	counts := make([]float64, 0, len(perMonth))
	for _, n := range perMonth {
		counts = append(counts, float64(n))
	}
	return Totals{
		DesdeInicio: types.Some(int(total)),
		MesAtual:    types.Some(int(month)),
		MediaMensal: mean(counts),
	}
}

// MonthlyByBU sums QTDE_QUEST per month and business unit.
func MonthlyByBU(t *types.Table, m filter.Mask, opts Options) []Point {
	return monthlySum(t, m, opts.withDefaults().Since, func(r types.Record) string { return r.BU })
}

// MonthlyByTipo sums QTDE_QUEST per month and request type.
func MonthlyByTipo(t *types.Table, m filter.Mask, opts Options) []Point {
	return monthlySum(t, m, opts.withDefaults().Since, func(r types.Record) string { return r.Tipo })
}

func monthlySum(t *types.Table, m filter.Mask, since time.Time, key func(types.Record) string) []Point {
	type groupKey struct{ month, key string }
	sums := map[groupKey]float64{}

	for i, r := range t.Records {
		if !m.Selected(i) || !inRange(r, since) {
			continue
		}
		k := groupKey{r.DataSolicitacao.Value.Format(monthLayout), key(r)}
		sums[k] += r.QtdeQuest.Or(0)
	}

	points := make([]Point, 0, len(sums))
	for k, v := range sums {
		points = append(points, Point{Month: k.month, Key: k.key, Quantidade: v})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Month != points[j].Month {
			return points[i].Month < points[j].Month
		}
		return points[i].Key < points[j].Key
	})
	return points
}

// StatusDistribution counts the selected rows per status, most frequent
// first.
func StatusDistribution(t *types.Table, m filter.Mask) []StatusCount {
	counts := map[string]int{}
	for i, r := range t.Records {
		if m.Selected(i) {
			counts[r.Status]++
		}
	}
	out := make([]StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusCount{Status: s, Quantidade: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantidade != out[j].Quantidade {
			return out[i].Quantidade > out[j].Quantidade
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// HasJira reports whether a JIRA cell names a ticket.
func HasJira(jira string) bool {
	return !noJiraTokens[strings.ToLower(strings.TrimSpace(jira))]
}

// MonthlySLA averages the business days between solicitation and conclusion
// per month, split by JIRA presence, regardless of status. Solicitacoes
// holds the number of requests per month.
func MonthlySLA(t *types.Table, m filter.Mask, opts Options) MonthlySLASeries {
	opts = opts.withDefaults()

	type groupKey struct {
		month string
		jira  bool
	}
	values := map[groupKey][]float64{}
	counts := map[string]int{}

	for i, r := range t.Records {
		if !m.Selected(i) || !inRange(r, opts.Since) {
			continue
		}
		month := r.DataSolicitacao.Value.Format(monthLayout)
		counts[month]++

		k := groupKey{month, HasJira(r.Jira)}
		v := values[k]
		if r.DataConclusao.Valid {
			v = append(v, float64(utils.BusinessDays(r.DataSolicitacao.Value, r.DataConclusao.Value)))
		}
		values[k] = v
	}

	series := MonthlySLASeries{
		SLA:          make([]SLAPoint, 0, len(values)),
		Solicitacoes: make([]MonthCount, 0, len(counts)),
	}
	for k, v := range values {
		series.SLA = append(series.SLA, SLAPoint{Month: k.month, ComJira: k.jira, SLAMedio: mean(v)})
	}
	sort.Slice(series.SLA, func(i, j int) bool {
		if series.SLA[i].Month != series.SLA[j].Month {
			return series.SLA[i].Month < series.SLA[j].Month
		}
		return !series.SLA[i].ComJira && series.SLA[j].ComJira
	})

	for month, n := range counts {
		series.Solicitacoes = append(series.Solicitacoes, MonthCount{Month: month, Quantidade: n})
	}
	sort.Slice(series.Solicitacoes, func(i, j int) bool {
		return series.Solicitacoes[i].Month < series.Solicitacoes[j].Month
	})
	return series
}

func inRange(r types.Record, since time.Time) bool {
	return r.DataSolicitacao.Valid && !r.DataSolicitacao.Value.Before(since)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func mean(v []float64) types.Opt[float64] {
	if len(v) == 0 {
		return types.None[float64]()
	}
	return types.Some(stat.Mean(v, nil))
}
