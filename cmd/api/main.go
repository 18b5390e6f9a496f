package main

import (
	"log"
	"os"
	"time"

	"github.com/farxc/acompanhamento-kpi/internal/env"
	"github.com/farxc/acompanhamento-kpi/internal/logger"
	"github.com/farxc/acompanhamento-kpi/internal/metrics"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/files"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg := config{
		Addr:           env.GetString("ADDR", ":8080"),
		LogLevel:       env.GetString("LOG_LEVEL", "info"),
		MaxUploadBytes: int64(env.GetInt("MAX_UPLOAD_MB", 32)) << 20,
		RequestTimeout: env.GetDuration("REQUEST_TIMEOUT", 60*time.Second),
		Sheet:          env.GetString("SHEET", files.DefaultSheet),
		HeaderRow:      env.GetInt("HEADER_ROW", files.DefaultHeaderRow),
	}

	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLogger := logger.New(logger.ParseLevel(cfg.LogLevel), os.Stdout, "acompanhamento-api")

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		appLogger.Fatal("API", "Failed to register metrics: %v", err)
	}

	app := &application{
		config: cfg,
		logger: appLogger,
	}

	mux := app.mount()

	if err := app.run(mux); err != nil {
		appLogger.Fatal("API", "Server stopped: %v", err)
	}
}
