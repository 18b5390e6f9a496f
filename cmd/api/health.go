package main

import (
	"net/http"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/kpi"
)

const version = "0.1.0"

// @Summary		Health check
// @Description	returns the status of the service
// @Tags			Health
// @Produce		json
// @Success		200	{object}	map[string]string
// @Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {

	data := map[string]string{
		"status":      "available",
		"version":     version,
		"kpi_version": kpi.Version,
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		app.logger.Error("API", "Failed to write health response: %v", err)
	}
}
