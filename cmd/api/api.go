package main

import (
	"net/http"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type application struct {
	config config
	logger *logger.Logger
}

type config struct {
	Addr           string        `validate:"required"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
	MaxUploadBytes int64         `validate:"gt=0"`
	RequestTimeout time.Duration `validate:"gt=0"`
	Sheet          string        `validate:"required"`
	HeaderRow      int           `validate:"gte=1"`
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(app.config.RequestTimeout))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/reports", func(r chi.Router) {
			r.Post("/", app.handleCreateReport)
			r.Post("/summary", app.handleCreateSummary)
			r.Post("/export", app.handleExportReport)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.logger.Info("API", "Server started on %s", app.config.Addr)
	return srv.ListenAndServe()
}
