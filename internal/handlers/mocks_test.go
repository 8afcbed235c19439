package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gl-reconciliation-service/internal/models"
	"gl-reconciliation-service/internal/services"
)

// MockCalendarService implements CalendarService for testing
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) ResolvePeriod(ctx context.Context, companyID int64, date time.Time) (*models.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FiscalPeriod), args.Error(1)
}

func (m *MockCalendarService) OpenGeneralLedgerWindow(ctx context.Context, companyID int64, dateRange models.DateRange) (*services.WindowResult, error) {
	args := m.Called(ctx, companyID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WindowResult), args.Error(1)
}

func (m *MockCalendarService) OpenAccountsPayableWindow(ctx context.Context, companyID int64, dateRange models.DateRange) (*services.WindowResult, error) {
	args := m.Called(ctx, companyID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.WindowResult), args.Error(1)
}

func (m *MockCalendarService) GenerateFiscalYear(ctx context.Context, companyID int64, req services.FiscalYearRequest) ([]models.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FiscalPeriod), args.Error(1)
}

func (m *MockCalendarService) ListPeriods(ctx context.Context, companyID int64, fiscalYear *int) ([]models.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, fiscalYear)
	return args.Get(0).([]models.FiscalPeriod), args.Error(1)
}

func (m *MockCalendarService) FiscalYears(ctx context.Context, companyID int64) ([]models.FiscalYear, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]models.FiscalYear), args.Error(1)
}

// MockGLSummaryService implements GLSummaryService for testing
type MockGLSummaryService struct {
	mock.Mock
	Streamed []*models.GeneralLedgerSummary
}

func (m *MockGLSummaryService) RunningBalance(ctx context.Context, companyID int64, accountNumber string, storeNumber int, periodType models.OverallPeriodType, period int) (*services.BalanceResult, error) {
	args := m.Called(ctx, companyID, accountNumber, storeNumber, periodType, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BalanceResult), args.Error(1)
}

func (m *MockGLSummaryService) TrialBalanceCandidates(ctx context.Context, companyID int64, filter models.TrialBalanceFilter, fn func(*models.GeneralLedgerSummary) error) error {
	args := m.Called(ctx, companyID, filter)
	for _, s := range m.Streamed {
		if err := fn(s); err != nil {
			return err
		}
	}
	return args.Error(0)
}

// MockReconciliationService implements ReconciliationService for testing
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Reconcile(ctx context.Context, companyID int64, asOf *time.Time) (*models.ReconciliationReport, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconciliationReport), args.Error(1)
}
