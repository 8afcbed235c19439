package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gl-reconciliation-service/internal/models"
	"gl-reconciliation-service/internal/repositories"
)

// MockGLSummaryRepository implements repositories.GLSummaryRepository for testing
type MockGLSummaryRepository struct {
	mock.Mock
	// Streamed is fed to the callback of EachTrialBalanceCandidate.
	Streamed []*models.GeneralLedgerSummary
}

func (m *MockGLSummaryRepository) FindSummary(ctx context.Context, companyID int64, accountNumber string, storeNumber int, periodType models.OverallPeriodType) (*models.GeneralLedgerSummary, error) {
	args := m.Called(ctx, companyID, accountNumber, storeNumber, periodType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeneralLedgerSummary), args.Error(1)
}

func (m *MockGLSummaryRepository) EachTrialBalanceCandidate(ctx context.Context, companyID int64, filter models.TrialBalanceFilter, fn func(*models.GeneralLedgerSummary) error) error {
	args := m.Called(ctx, companyID, filter)
	for _, s := range m.Streamed {
		if err := fn(s); err != nil {
			return err
		}
	}
	return args.Error(0)
}

// MockReferenceRepository implements repositories.ReferenceRepository for testing
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) FindAccountByNumber(ctx context.Context, companyID int64, accountNumber string) (*repositories.Account, error) {
	args := m.Called(ctx, companyID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.Account), args.Error(1)
}

func (m *MockReferenceRepository) FindStoreByNumber(ctx context.Context, companyID int64, storeNumber int) (*repositories.Store, error) {
	args := m.Called(ctx, companyID, storeNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.Store), args.Error(1)
}

// MockInventoryRepository implements repositories.InventoryRepository for testing
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) ReconciliationRows(ctx context.Context, companyID int64, scope *repositories.ReconciliationScope) ([]models.ReconciliationRow, error) {
	args := m.Called(ctx, companyID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReconciliationRow), args.Error(1)
}

// MockPeriodResolver implements PeriodResolver for testing
type MockPeriodResolver struct {
	mock.Mock
}

func (m *MockPeriodResolver) ResolvePeriod(ctx context.Context, companyID int64, date time.Time) (*models.FiscalPeriod, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FiscalPeriod), args.Error(1)
}
