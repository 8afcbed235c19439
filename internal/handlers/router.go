package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gl-reconciliation-service/internal/locking"
	"gl-reconciliation-service/internal/repositories"
	"gl-reconciliation-service/internal/services"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Services struct {
	Calendar       CalendarService
	GLSummary      GLSummaryService
	Reconciliation ReconciliationService
	DB             Pinger
}

// SetupRouter wires repositories and services over db.
func SetupRouter(db *sql.DB, locker locking.Locker, log *zap.Logger) *mux.Router {
	calendarRepo := repositories.NewCalendarRepository(db)
	calendarService := services.NewCalendarService(db, calendarRepo, locker, log)

	return NewRouter(Services{
		Calendar: calendarService,
		GLSummary: services.NewGLSummaryService(
			repositories.NewGLSummaryRepository(db),
			repositories.NewReferenceRepository(db),
			log,
		),
		Reconciliation: services.NewReconciliationService(
			calendarService,
			repositories.NewInventoryRepository(db),
			log,
		),
		DB: db,
	}, log)
}

func NewRouter(svc Services, log *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware(log))

	router.HandleFunc("/health", healthCheckHandler(svc.DB)).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(companyMiddleware)

	reconciliation := NewReconciliationHandler(svc.Reconciliation)
	api.HandleFunc("/reconciliation", reconciliation.GetReconciliation).Methods(http.MethodGet)

	calendar := NewCalendarHandler(svc.Calendar)
	api.HandleFunc("/calendar/gl-window", calendar.OpenGeneralLedgerWindow).Methods(http.MethodPut)
	api.HandleFunc("/calendar/ap-window", calendar.OpenAccountsPayableWindow).Methods(http.MethodPut)
	api.HandleFunc("/calendar/fiscal-years", calendar.GenerateFiscalYear).Methods(http.MethodPost)
	api.HandleFunc("/calendar/fiscal-years", calendar.FiscalYears).Methods(http.MethodGet)
	api.HandleFunc("/calendar/periods", calendar.ListPeriods).Methods(http.MethodGet)
	api.HandleFunc("/calendar/periods/resolve", calendar.ResolvePeriod).Methods(http.MethodGet)

	summaries := NewGLSummaryHandler(svc.GLSummary)
	api.HandleFunc("/gl-summaries", summaries.TrialBalanceCandidates).Methods(http.MethodGet)
	api.HandleFunc("/gl-summaries/{account}/stores/{store}/balance", summaries.RunningBalance).Methods(http.MethodGet)

	return router
}

func healthCheckHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
