package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gl-reconciliation-service/internal/logger"
	"gl-reconciliation-service/internal/models"
	"gl-reconciliation-service/internal/services"
)

type GLSummaryService interface {
	RunningBalance(ctx context.Context, companyID int64, accountNumber string, storeNumber int, periodType models.OverallPeriodType, period int) (*services.BalanceResult, error)
	TrialBalanceCandidates(ctx context.Context, companyID int64, filter models.TrialBalanceFilter, fn func(*models.GeneralLedgerSummary) error) error
}

type GLSummaryHandler struct {
	summaryService GLSummaryService
}

func NewGLSummaryHandler(summaryService GLSummaryService) *GLSummaryHandler {
	return &GLSummaryHandler{summaryService: summaryService}
}

// periodTypeParam defaults to Current when the parameter is absent.
func periodTypeParam(r *http.Request) (models.OverallPeriodType, error) {
	code := r.URL.Query().Get("periodType")
	if code == "" {
		return models.PeriodTypeCurrent, nil
	}
	return models.ParseOverallPeriodType(code)
}

func (h *GLSummaryHandler) RunningBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var errs models.ValidationErrors

	store, err := strconv.Atoi(vars["store"])
	if err != nil {
		errs = errs.Add("store", "must be an integer")
	}
	period, err := strconv.Atoi(r.URL.Query().Get("period"))
	if err != nil {
		errs = errs.Add("period", "must be an integer between 1 and 12")
	}
	periodType, err := periodTypeParam(r)
	if err != nil {
		errs = errs.Add("periodType", "must be one of P C N")
	}
	if err := errs.OrNil(); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	result, err := h.summaryService.RunningBalance(r.Context(), companyIDFrom(r.Context()), vars["account"], store, periodType, period)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// TrialBalanceCandidates writes the matching summaries as a JSON array while
// they are read. Errors after the first element can only be logged.
func (h *GLSummaryHandler) TrialBalanceCandidates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	periodType, err := periodTypeParam(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	filter := models.TrialBalanceFilter{
		OverallPeriodType: periodType,
		AccountFrom:       query.Get("accountFrom"),
		AccountTo:         query.Get("accountTo"),
	}
	if raw := query.Get("store"); raw != "" {
		store, err := strconv.Atoi(raw)
		if err != nil {
			respondWithServiceError(w, r, models.ValidationErrors{}.Add("store", "must be an integer"))
			return
		}
		filter.StoreNumber = &store
	}

	enc := json.NewEncoder(w)
	started := false
	err = h.summaryService.TrialBalanceCandidates(r.Context(), companyIDFrom(r.Context()), filter,
		func(summary *models.GeneralLedgerSummary) error {
			sep := ","
			if !started {
				started = true
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				sep = "["
			}
			if _, err := w.Write([]byte(sep)); err != nil {
				return err
			}
			return enc.Encode(summary)
		})

	switch {
	case err != nil && !started:
		respondWithServiceError(w, r, err)
	case err != nil:
		logger.FromContext(r.Context()).Error("trial balance stream aborted", zap.Error(err))
	case !started:
		respondWithJSON(w, http.StatusOK, []models.GeneralLedgerSummary{})
	default:
		w.Write([]byte("]"))
	}
}
