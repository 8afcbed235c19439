package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"gl-reconciliation-service/internal/models"
	"gl-reconciliation-service/internal/services"
)

type CalendarService interface {
	ResolvePeriod(ctx context.Context, companyID int64, date time.Time) (*models.FiscalPeriod, error)
	OpenGeneralLedgerWindow(ctx context.Context, companyID int64, dateRange models.DateRange) (*services.WindowResult, error)
	OpenAccountsPayableWindow(ctx context.Context, companyID int64, dateRange models.DateRange) (*services.WindowResult, error)
	GenerateFiscalYear(ctx context.Context, companyID int64, req services.FiscalYearRequest) ([]models.FiscalPeriod, error)
	ListPeriods(ctx context.Context, companyID int64, fiscalYear *int) ([]models.FiscalPeriod, error)
	FiscalYears(ctx context.Context, companyID int64) ([]models.FiscalYear, error)
}

type CalendarHandler struct {
	calendarService CalendarService
	validate        *validator.Validate
}

func NewCalendarHandler(calendarService CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		validate:        newValidator(),
	}
}

type windowRequest struct {
	PeriodFrom string `json:"periodFrom" validate:"required,datetime=2006-01-02"`
	PeriodTo   string `json:"periodTo" validate:"required,datetime=2006-01-02"`
}

type fiscalYearRequest struct {
	FiscalYear int    `json:"fiscalYear" validate:"required,gte=1900,lte=9999"`
	FirstDay   string `json:"firstDay" validate:"required,datetime=2006-01-02"`
	PeriodType string `json:"periodType" validate:"omitempty,oneof=P C N"`
}

func (h *CalendarHandler) OpenGeneralLedgerWindow(w http.ResponseWriter, r *http.Request) {
	h.openWindow(w, r, h.calendarService.OpenGeneralLedgerWindow)
}

func (h *CalendarHandler) OpenAccountsPayableWindow(w http.ResponseWriter, r *http.Request) {
	h.openWindow(w, r, h.calendarService.OpenAccountsPayableWindow)
}

func (h *CalendarHandler) openWindow(w http.ResponseWriter, r *http.Request,
	open func(context.Context, int64, models.DateRange) (*services.WindowResult, error)) {
	var request windowRequest
	if err := decodeAndValidate(h.validate, r, &request); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	// both fields already passed the datetime rule
	from, _ := models.ParseDate("periodFrom", request.PeriodFrom)
	to, _ := models.ParseDate("periodTo", request.PeriodTo)

	result, err := open(r.Context(), companyIDFrom(r.Context()), models.DateRange{From: from, To: to})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *CalendarHandler) GenerateFiscalYear(w http.ResponseWriter, r *http.Request) {
	var request fiscalYearRequest
	if err := decodeAndValidate(h.validate, r, &request); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	firstDay, _ := models.ParseDate("firstDay", request.FirstDay)
	periodType := models.PeriodTypeCurrent
	if request.PeriodType != "" {
		periodType, _ = models.ParseOverallPeriodType(request.PeriodType)
	}

	periods, err := h.calendarService.GenerateFiscalYear(r.Context(), companyIDFrom(r.Context()), services.FiscalYearRequest{
		FiscalYear: request.FiscalYear,
		FirstDay:   firstDay,
		PeriodType: periodType,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, periods)
}

func (h *CalendarHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	var fiscalYear *int
	if raw := r.URL.Query().Get("fiscalYear"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondWithServiceError(w, r, models.ValidationErrors{}.Add("fiscalYear", "must be an integer"))
			return
		}
		fiscalYear = &year
	}

	periods, err := h.calendarService.ListPeriods(r.Context(), companyIDFrom(r.Context()), fiscalYear)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, periods)
}

func (h *CalendarHandler) ResolvePeriod(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		respondWithServiceError(w, r, models.ValidationErrors{}.Add("date", "is required"))
		return
	}
	date, err := models.ParseDate("date", raw)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	period, err := h.calendarService.ResolvePeriod(r.Context(), companyIDFrom(r.Context()), date)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, period)
}

func (h *CalendarHandler) FiscalYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.calendarService.FiscalYears(r.Context(), companyIDFrom(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, years)
}
