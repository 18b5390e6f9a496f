package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/dashboard"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/files"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/filter"
)

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func parseTime(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// filtersFromQuery reads the four equality filters. Missing parameters
// leave the field unconstrained.
func filtersFromQuery(r *http.Request) filter.Filters {
	q := r.URL.Query()
	return filter.Filters{
		BU:     q.Get("bu"),
		RespSM: q.Get("resp_sm"),
		Status: q.Get("status"),
		Tipo:   q.Get("tipo"),
	}
}

func (app *application) readOptionsFromQuery(r *http.Request) files.ReadOptions {
	q := r.URL.Query()
	opts := files.ReadOptions{
		Sheet:     valueOrDefault(q.Get("sheet"), app.config.Sheet),
		HeaderRow: app.config.HeaderRow,
	}
	if h, err := strconv.Atoi(q.Get("header_row")); err == nil && h > 0 {
		opts.HeaderRow = h
	}
	return opts
}

// dashboardOptionsFromQuery reads the optional reference date "now" and the
// series start "since", both as YYYY-MM-DD.
func dashboardOptionsFromQuery(r *http.Request) (dashboard.Options, error) {
	var opts dashboard.Options
	q := r.URL.Query()

	if s := q.Get("now"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return opts, err
		}
		opts.Now = t
	}
	if s := q.Get("since"); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return opts, err
		}
		opts.Since = t
	}
	return opts, nil
}
