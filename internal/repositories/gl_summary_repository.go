package repositories

import (
	"context"
	"database/sql"
	"errors"

	"gl-reconciliation-service/internal/models"
)

type GLSummaryRepository interface {
	FindSummary(ctx context.Context, companyID int64, accountNumber string, storeNumber int, periodType models.OverallPeriodType) (*models.GeneralLedgerSummary, error)
	EachTrialBalanceCandidate(ctx context.Context, companyID int64, filter models.TrialBalanceFilter, fn func(*models.GeneralLedgerSummary) error) error
}

type glSummaryRepository struct {
	db *sql.DB
}

func NewGLSummaryRepository(db *sql.DB) GLSummaryRepository {
	return &glSummaryRepository{db: db}
}

// summaryColumns is shared by every query that decodes through summaryTargets;
// keep the two in the same order.
const summaryColumns = `
	gl.id, gl.company_id, gl.account_id, a.account_number, gl.profit_center_id,
	pc.store_number, gl.overall_period_type_id, gl.beginning_balance,
	gl.net_activity_01, gl.net_activity_02, gl.net_activity_03, gl.net_activity_04,
	gl.net_activity_05, gl.net_activity_06, gl.net_activity_07, gl.net_activity_08,
	gl.net_activity_09, gl.net_activity_10, gl.net_activity_11, gl.net_activity_12,
	gl.closing_balance`

// summaryTargets returns scan destinations for summaryColumns.
func summaryTargets(s *models.GeneralLedgerSummary) []any {
	targets := []any{
		&s.ID,
		&s.CompanyID,
		&s.AccountID,
		&s.AccountNumber,
		&s.ProfitCenterID,
		&s.StoreNumber,
		&s.OverallPeriodType,
		&s.BeginningBalance,
	}
	for i := range s.NetActivity {
		targets = append(targets, &s.NetActivity[i])
	}
	return append(targets, &s.ClosingBalance)
}

func (r *glSummaryRepository) FindSummary(ctx context.Context, companyID int64, accountNumber string, storeNumber int, periodType models.OverallPeriodType) (*models.GeneralLedgerSummary, error) {
	query := `SELECT` + summaryColumns + `
		FROM gl_summary gl
		JOIN accounts a ON a.id = gl.account_id
		JOIN profit_centers pc ON pc.id = gl.profit_center_id
		WHERE gl.company_id = ?
		AND a.account_number = ?
		AND pc.store_number = ?
		AND gl.overall_period_type_id = ?
	`
	s := &models.GeneralLedgerSummary{}
	err := r.db.QueryRowContext(ctx, query, companyID, accountNumber, storeNumber, periodType).Scan(summaryTargets(s)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("general ledger summary",
			"account %s store %d period type %s", accountNumber, storeNumber, periodType.Code())
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// EachTrialBalanceCandidate streams matching summaries to fn in account, store
// order. fn's error stops the scan and is returned unchanged.
func (r *glSummaryRepository) EachTrialBalanceCandidate(ctx context.Context, companyID int64, filter models.TrialBalanceFilter, fn func(*models.GeneralLedgerSummary) error) error {
	query := `SELECT` + summaryColumns + `
		FROM gl_summary gl
		JOIN accounts a ON a.id = gl.account_id
		JOIN profit_centers pc ON pc.id = gl.profit_center_id
		WHERE gl.company_id = ?
		AND gl.overall_period_type_id = ?
	`
	args := []any{companyID, filter.OverallPeriodType}
	if filter.AccountFrom != "" {
		query += " AND a.account_number >= ?"
		args = append(args, filter.AccountFrom)
	}
	if filter.AccountTo != "" {
		query += " AND a.account_number <= ?"
		args = append(args, filter.AccountTo)
	}
	if filter.StoreNumber != nil {
		query += " AND pc.store_number = ?"
		args = append(args, *filter.StoreNumber)
	}
	query += " ORDER BY a.account_number, pc.store_number"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		s := &models.GeneralLedgerSummary{}
		if err := rows.Scan(summaryTargets(s)...); err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
	}
	return rows.Err()
}
