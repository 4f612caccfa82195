package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"civic-request-report/internal/model"
	"civic-request-report/internal/report"
	"civic-request-report/internal/store"
	"civic-request-report/pkg/utils"

	"github.com/google/uuid"
)

// CreateReport creates a new report run
// @Summary Create a report run
// @Description Validate a report spec, persist the run, and execute it asynchronously
// @Tags reports
// @Accept json
// @Produce json
// @Param report body model.ReportSpec true "Report configuration"
// @Success 200 {object} map[string]interface{} "Run created"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [post]
func CreateReport(w http.ResponseWriter, r *http.Request) {
	var spec model.ReportSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := report.ValidateSpec(spec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()

	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.RunTimeout))
	go func() {
		defer cancel()
		// Run records its own failure status and error rows.
		report.Run(ctx, runID, spec)
	}()

	resp := map[string]interface{}{
		"message":   "Report run created",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	writeJSON(w, resp)
}

// ListReports retrieves all report runs
// @Summary List report runs
// @Description Get all report runs with their current status
// @Tags reports
// @Produce json
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [get]
func ListReports(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

// GetReport retrieves one report run
// @Summary Get report run
// @Description Retrieve the stored report spec and status of a run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /reports/{id} [get]
func GetReport(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "")
	if !ok {
		return
	}
	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

// GetReportResults retrieves the finished table of a run
// @Summary Get report results
// @Description Retrieve the ranked result table of a completed run, including per-column aggregation directives
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.Table "Result table"
// @Failure 404 {object} map[string]interface{} "Results not found"
// @Router /reports/{id}/results [get]
func GetReportResults(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/results")
	if !ok {
		return
	}
	result, err := store.GetRunResults(runID)
	if err != nil {
		http.Error(w, "Results not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(result)
}

// GetReportQuality retrieves the data-quality counters of a run
// @Summary Get report data quality
// @Description Retrieve counts of malformed, excluded, and unjoinable records for a run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.Quality "Quality counters"
// @Failure 404 {object} map[string]interface{} "Quality not found"
// @Router /reports/{id}/quality [get]
func GetReportQuality(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/quality")
	if !ok {
		return
	}
	quality, err := store.GetRunQuality(runID)
	if err != nil {
		http.Error(w, "Quality not found", http.StatusNotFound)
		return
	}
	writeJSON(w, quality)
}

// GetReportErrors retrieves errors recorded for a run
// @Summary Get report errors
// @Description Retrieve all errors recorded during a run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports/{id}/errors [get]
func GetReportErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/errors")
	if !ok {
		return
	}
	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to fetch errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, errs)
}

// runIDFromPath extracts the run ID between the reports prefix and an
// optional suffix.
func runIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	const prefix = "/api/v1/reports/"
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) || (suffix != "" && !strings.HasSuffix(path, suffix)) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	runID := strings.TrimSuffix(path[len(prefix):], suffix)
	if runID == "" || strings.Contains(runID, "/") {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return "", false
	}
	return runID, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
