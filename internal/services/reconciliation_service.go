package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gl-reconciliation-service/internal/models"
	"gl-reconciliation-service/internal/reconcile"
	"gl-reconciliation-service/internal/repositories"
)

// PeriodResolver maps a date to the fiscal period that covers it.
type PeriodResolver interface {
	ResolvePeriod(ctx context.Context, companyID int64, date time.Time) (*models.FiscalPeriod, error)
}

type ReconciliationService struct {
	calendar      PeriodResolver
	inventoryRepo repositories.InventoryRepository
	engine        *reconcile.Engine
	log           *zap.Logger
}

func NewReconciliationService(
	calendar PeriodResolver,
	inventoryRepo repositories.InventoryRepository,
	log *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		calendar:      calendar,
		inventoryRepo: inventoryRepo,
		engine:        reconcile.NewEngine(),
		log:           log,
	}
}

// Reconcile compares inventory valuations with GL balances for a company.
// With asOf set the report covers the period containing that date and the
// inventory snapshot of its month; a date outside the calendar is NotFound.
// Without asOf every snapshot is reconciled against its own month end period.
func (s *ReconciliationService) Reconcile(ctx context.Context, companyID int64, asOf *time.Time) (*models.ReconciliationReport, error) {
	var scope *repositories.ReconciliationScope
	if asOf != nil {
		period, err := s.calendar.ResolvePeriod(ctx, companyID, *asOf)
		if err != nil {
			return nil, err
		}
		scope = &repositories.ReconciliationScope{
			PeriodID: period.ID,
			Year:     asOf.Year(),
			Month:    int(asOf.Month()),
		}
	}

	start := time.Now()
	rows, err := s.inventoryRepo.ReconciliationRows(ctx, companyID, scope)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.Run(rows)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.Int64("company_id", companyID),
		zap.Int("rows", len(rows)),
		zap.Int("details", len(report.Details)),
		zap.Int("rollups", len(report.Rollups)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if asOf != nil {
		fields = append(fields, zap.String("as_of", models.FormatDate(*asOf)))
	}
	s.log.Info("reconciliation completed", fields...)
	return report, nil
}
