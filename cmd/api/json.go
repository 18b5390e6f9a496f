package main

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/farxc/acompanhamento-kpi/internal/response"
)

// writeJSON encodes data before committing the status, so an encoding
// failure leaves the response untouched for the caller to report.
func writeJSON(w http.ResponseWriter, status int, data any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(status)

	_, err := buf.WriteTo(w)
	return err
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &response.ErrorResponse{Error: message})

}
