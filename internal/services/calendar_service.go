package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gl-reconciliation-service/internal/database"
	"gl-reconciliation-service/internal/locking"
	"gl-reconciliation-service/internal/models"
	"gl-reconciliation-service/internal/repositories"
)

type CalendarService struct {
	db           *sql.DB
	calendarRepo repositories.CalendarRepository
	locker       locking.Locker
	log          *zap.Logger
}

func NewCalendarService(
	db *sql.DB,
	calendarRepo repositories.CalendarRepository,
	locker locking.Locker,
	log *zap.Logger,
) *CalendarService {
	return &CalendarService{
		db:           db,
		calendarRepo: calendarRepo,
		locker:       locker,
		log:          log,
	}
}

// WindowResult reports how many periods each phase of a window update touched.
type WindowResult struct {
	Window string `json:"window"`
	Closed int64  `json:"closed"`
	Opened int64  `json:"opened"`
}

func (s *CalendarService) ResolvePeriod(ctx context.Context, companyID int64, date time.Time) (*models.FiscalPeriod, error) {
	return s.calendarRepo.FindPeriodByDate(ctx, companyID, date)
}

func (s *CalendarService) OpenGeneralLedgerWindow(ctx context.Context, companyID int64, dateRange models.DateRange) (*WindowResult, error) {
	return s.openWindow(ctx, companyID, repositories.GeneralLedgerWindow, dateRange)
}

func (s *CalendarService) OpenAccountsPayableWindow(ctx context.Context, companyID int64, dateRange models.DateRange) (*WindowResult, error) {
	return s.openWindow(ctx, companyID, repositories.AccountsPayableWindow, dateRange)
}

// openWindow closes the window on every Current period and then opens it on
// the periods starting inside dateRange, in one transaction. An empty match in
// the second phase leaves the window closed everywhere.
func (s *CalendarService) openWindow(ctx context.Context, companyID int64, window repositories.PostingWindow, dateRange models.DateRange) (*WindowResult, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, locking.CalendarKey(companyID))
	if err != nil {
		return nil, err
	}
	defer release()

	result := &WindowResult{Window: window.Name}
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		closed, err := s.calendarRepo.CloseWindow(ctx, tx, companyID, window, models.PeriodTypeCurrent)
		if err != nil {
			return fmt.Errorf("close %s window: %w", window.Name, err)
		}
		opened, err := s.calendarRepo.OpenWindow(ctx, tx, companyID, window, dateRange)
		if err != nil {
			return fmt.Errorf("open %s window: %w", window.Name, err)
		}
		result.Closed, result.Opened = closed, opened
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("posting window updated",
		zap.Int64("company_id", companyID),
		zap.String("window", window.Name),
		zap.String("from", models.FormatDate(dateRange.From)),
		zap.String("to", models.FormatDate(dateRange.To)),
		zap.Int64("closed", result.Closed),
		zap.Int64("opened", result.Opened),
	)
	if result.Opened == 0 {
		s.log.Warn("no periods start inside the window range; window is closed everywhere",
			zap.Int64("company_id", companyID),
			zap.String("window", window.Name),
		)
	}
	return result, nil
}

type FiscalYearRequest struct {
	FiscalYear int
	FirstDay   time.Time
	PeriodType models.OverallPeriodType
}

func (r FiscalYearRequest) validate() error {
	var errs models.ValidationErrors
	if r.FiscalYear < 1 || r.FiscalYear > 9999 {
		errs = errs.Add("fiscalYear", "must be between 1 and 9999")
	}
	if r.FirstDay.IsZero() {
		errs = errs.Add("firstDay", "is required")
	}
	if !r.PeriodType.IsValid() {
		errs = errs.Add("periodType", fmt.Sprintf("unknown overall period type %d", int(r.PeriodType)))
	}
	return errs.OrNil()
}

// GenerateFiscalYear inserts twelve monthly periods starting at req.FirstDay.
// A year that already exists or overlaps existing periods is rejected.
func (s *CalendarService) GenerateFiscalYear(ctx context.Context, companyID int64, req FiscalYearRequest) ([]models.FiscalPeriod, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, locking.CalendarKey(companyID))
	if err != nil {
		return nil, err
	}
	defer release()

	periods := models.BuildFiscalYear(companyID, req.FiscalYear, req.FirstDay, req.PeriodType)
	first, last := periods[0], periods[len(periods)-1]

	exists, err := s.calendarRepo.FiscalYearExists(ctx, companyID, req.FiscalYear, req.PeriodType)
	if err != nil {
		return nil, err
	}
	var errs models.ValidationErrors
	if exists {
		errs = errs.Add("fiscalYear", fmt.Sprintf("fiscal year %d (%s) already exists", req.FiscalYear, req.PeriodType))
	}
	overlapping, err := s.calendarRepo.CountOverlapping(ctx, companyID, first.PeriodFrom, last.PeriodTo)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		errs = errs.Add("firstDay", fmt.Sprintf("%s to %s overlaps %d existing periods",
			models.FormatDate(first.PeriodFrom), models.FormatDate(last.PeriodTo), overlapping))
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.calendarRepo.InsertPeriods(ctx, tx, periods)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("fiscal year generated",
		zap.Int64("company_id", companyID),
		zap.Int("fiscal_year", req.FiscalYear),
		zap.String("period_type", req.PeriodType.Code()),
		zap.String("begin", models.FormatDate(first.PeriodFrom)),
		zap.String("end", models.FormatDate(last.PeriodTo)),
	)
	return periods, nil
}

func (s *CalendarService) ListPeriods(ctx context.Context, companyID int64, fiscalYear *int) ([]models.FiscalPeriod, error) {
	return s.calendarRepo.ListPeriods(ctx, companyID, fiscalYear)
}

func (s *CalendarService) FiscalYears(ctx context.Context, companyID int64) ([]models.FiscalYear, error) {
	periods, err := s.calendarRepo.ListPeriods(ctx, companyID, nil)
	if err != nil {
		return nil, err
	}
	return models.FiscalYearsFromPeriods(periods), nil
}
