package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"gl-reconciliation-service/internal/export"
	"gl-reconciliation-service/internal/models"
)

type ReconciliationService interface {
	Reconcile(ctx context.Context, companyID int64, asOf *time.Time) (*models.ReconciliationReport, error)
}

type ReconciliationHandler struct {
	reconciliationService ReconciliationService
}

func NewReconciliationHandler(reconciliationService ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// GetReconciliation serves the report as JSON, or as a workbook with
// format=xlsx. An empty report is a 404.
func (h *ReconciliationHandler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var errs models.ValidationErrors

	var asOf *time.Time
	if raw := query.Get("date"); raw != "" {
		date, err := models.ParseDate("date", raw)
		if err != nil {
			errs = append(errs, err.(models.ValidationErrors)...)
		} else {
			asOf = &date
		}
	}
	format := query.Get("format")
	if format != "" && format != "json" && format != "xlsx" {
		errs = errs.Add("format", "must be json or xlsx")
	}
	if err := errs.OrNil(); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	companyID := companyIDFrom(r.Context())
	report, err := h.reconciliationService.Reconcile(r.Context(), companyID, asOf)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if len(report.Details) == 0 {
		respondWithError(w, http.StatusNotFound, "no reconciliation lines found")
		return
	}

	if format != "xlsx" {
		respondWithJSON(w, http.StatusOK, report)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReconciliation(&buf, report); err != nil {
		respondWithServiceError(w, r, fmt.Errorf("render workbook: %w", err))
		return
	}
	suffix := "all"
	if asOf != nil {
		suffix = models.FormatDate(*asOf)
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=reconciliation-%d-%s.xlsx", companyID, suffix))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
