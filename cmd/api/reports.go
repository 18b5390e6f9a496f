package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/farxc/acompanhamento-kpi/internal/metrics"
	"github.com/farxc/acompanhamento-kpi/internal/response"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/export"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/files"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/kpi"
	"github.com/go-gota/gota/dataframe"
)

type CreateReportResponse = response.APIResponse[*solicitacoes.Result]
type CreateSummaryResponse = response.APIResponse[kpi.Summary]

const uploadField = "file"

// readUpload decodes the multipart upload into a raw table. The returned
// status is the one to answer with when err is not nil.
func (app *application) readUpload(w http.ResponseWriter, r *http.Request) (dataframe.DataFrame, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, app.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(app.config.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dataframe.DataFrame{}, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit)
		}
		return dataframe.DataFrame{}, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return dataframe.DataFrame{}, http.StatusBadRequest, fmt.Errorf("missing %q field: %w", uploadField, err)
	}
	defer file.Close()

	df, err := files.Read(file, header.Filename, app.readOptionsFromQuery(r))
	if err != nil {
		metrics.ObserveUpload(0, 0, metrics.OutcomeError)
		switch {
		case errors.Is(err, files.ErrUnsupportedFormat):
			return df, http.StatusUnsupportedMediaType, err
		default:
			return df, http.StatusUnprocessableEntity, err
		}
	}
	return df, http.StatusOK, nil
}

// process runs the pipeline for the request and answers with an error when
// it cannot produce a result.
func (app *application) process(w http.ResponseWriter, r *http.Request) (*solicitacoes.Result, bool) {
	opts, err := dashboardOptionsFromQuery(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid date parameter: "+err.Error())
		return nil, false
	}

	raw, status, err := app.readUpload(w, r)
	if err != nil {
		app.logger.Warn("API", "Rejected upload: %v", err)
		writeJSONError(w, status, err.Error())
		return nil, false
	}

	res, err := solicitacoes.Process(raw, filtersFromQuery(r), opts, app.logger)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "failed to normalize table: "+err.Error())
		return nil, false
	}
	return res, true
}

// @Summary		Process a spreadsheet
// @Description	Normalizes the uploaded table and returns the KPI summary, dashboard series and filter options.
// @Tags			Reports
// @Accept			multipart/form-data
// @Produce		json
// @Param			file		formData	file					true	"xlsx or csv export"
// @Param			bu			query		string					false	"BU filter"
// @Param			resp_sm		query		string					false	"RESP_SM filter"
// @Param			status		query		string					false	"STATUS filter"
// @Param			tipo		query		string					false	"TIPO filter"
// @Param			now			query		string					false	"Reference date (YYYY-MM-DD)"
// @Success		200			{object}	CreateReportResponse
// @Failure		400			{object}	response.ErrorResponse
// @Failure		422			{object}	response.ErrorResponse
// @Router			/reports [post]
func (app *application) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	res, ok := app.process(w, r)
	if !ok {
		return
	}

	response := &CreateReportResponse{
		Success: true,
		Data:    res,
		Message: fmt.Sprintf("Processed %d requests", res.Table.Len()),
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		app.logger.Error("API", "Failed to write response: run=%s error=%v", res.RunID, err)
	}
}

// @Summary		KPI summary of a spreadsheet
// @Tags			Reports
// @Accept			multipart/form-data
// @Produce		json
// @Param			file	formData	file					true	"xlsx or csv export"
// @Success		200		{object}	CreateSummaryResponse
// @Failure		400		{object}	response.ErrorResponse
// @Router			/reports/summary [post]
func (app *application) handleCreateSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := app.process(w, r)
	if !ok {
		return
	}

	response := &CreateSummaryResponse{
		Success: true,
		Data:    res.Summary,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		app.logger.Error("API", "Failed to write response: run=%s error=%v", res.RunID, err)
	}
}

// @Summary		Export the normalized workbook
// @Description	Returns the normalized table, the BU x STATUS pivot and the dashboard placeholder sheets as xlsx.
// @Tags			Reports
// @Accept			multipart/form-data
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param			file	formData	file	true	"xlsx or csv export"
// @Success		200
// @Failure		400		{object}	response.ErrorResponse
// @Router			/reports/export [post]
func (app *application) handleExportReport(w http.ResponseWriter, r *http.Request) {
	res, ok := app.process(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, res.Table); err != nil {
		app.logger.Error("API", "Export failed: run=%s error=%v", res.RunID, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		app.logger.Warn("API", "Export interrupted: run=%s error=%v", res.RunID, err)
	}
}
