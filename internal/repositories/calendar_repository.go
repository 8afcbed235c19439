package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gl-reconciliation-service/internal/models"
)

// PostingWindow selects which open/closed flag of the calendar a window
// operation touches. Only the two values below exist.
type PostingWindow struct {
	Name   string
	column string
}

var (
	GeneralLedgerWindow   = PostingWindow{Name: "general_ledger", column: "gl_open"}
	AccountsPayableWindow = PostingWindow{Name: "accounts_payable", column: "ap_open"}
)

type CalendarRepository interface {
	FindPeriodByDate(ctx context.Context, companyID int64, date time.Time) (*models.FiscalPeriod, error)
	ListPeriods(ctx context.Context, companyID int64, fiscalYear *int) ([]models.FiscalPeriod, error)
	CountOverlapping(ctx context.Context, companyID int64, from, to time.Time) (int, error)
	FiscalYearExists(ctx context.Context, companyID int64, fiscalYear int, periodType models.OverallPeriodType) (bool, error)
	InsertPeriods(ctx context.Context, tx *sql.Tx, periods []models.FiscalPeriod) error
	CloseWindow(ctx context.Context, tx *sql.Tx, companyID int64, window PostingWindow, periodType models.OverallPeriodType) (int64, error)
	OpenWindow(ctx context.Context, tx *sql.Tx, companyID int64, window PostingWindow, dateRange models.DateRange) (int64, error)
}

type calendarRepository struct {
	db *sql.DB
}

func NewCalendarRepository(db *sql.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

const calendarColumns = `
	id, company_id, overall_period_type_id, period, period_from, period_to,
	fiscal_year, gl_open, ap_open`

func scanPeriod(row interface{ Scan(...any) error }) (*models.FiscalPeriod, error) {
	p := &models.FiscalPeriod{}
	err := row.Scan(
		&p.ID,
		&p.CompanyID,
		&p.OverallPeriodType,
		&p.PeriodNumber,
		&p.PeriodFrom,
		&p.PeriodTo,
		&p.FiscalYear,
		&p.GeneralLedgerOpen,
		&p.AccountsPayableOpen,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *calendarRepository) FindPeriodByDate(ctx context.Context, companyID int64, date time.Time) (*models.FiscalPeriod, error) {
	query := `SELECT` + calendarColumns + `
		FROM financial_calendar
		WHERE company_id = ?
		AND ? BETWEEN period_from AND period_to
		ORDER BY overall_period_type_id
		LIMIT 1
	`
	day := models.TruncateDate(date)
	p, err := scanPeriod(r.db.QueryRowContext(ctx, query, companyID, day))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("fiscal period", "company %d date %s", companyID, models.FormatDate(day))
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *calendarRepository) ListPeriods(ctx context.Context, companyID int64, fiscalYear *int) ([]models.FiscalPeriod, error) {
	query := `SELECT` + calendarColumns + `
		FROM financial_calendar
		WHERE company_id = ?
	`
	args := []any{companyID}
	if fiscalYear != nil {
		query += " AND fiscal_year = ?"
		args = append(args, *fiscalYear)
	}
	query += " ORDER BY period_from, overall_period_type_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]models.FiscalPeriod, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *calendarRepository) CountOverlapping(ctx context.Context, companyID int64, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM financial_calendar
		WHERE company_id = ?
		AND period_from <= ?
		AND period_to >= ?
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, companyID, to, from).Scan(&count)
	return count, err
}

func (r *calendarRepository) FiscalYearExists(ctx context.Context, companyID int64, fiscalYear int, periodType models.OverallPeriodType) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM financial_calendar
		WHERE company_id = ?
		AND fiscal_year = ?
		AND overall_period_type_id = ?
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, companyID, fiscalYear, periodType).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *calendarRepository) InsertPeriods(ctx context.Context, tx *sql.Tx, periods []models.FiscalPeriod) error {
	query := `
		INSERT INTO financial_calendar (
			company_id, overall_period_type_id, period, period_from, period_to,
			fiscal_year, gl_open, ap_open
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range periods {
		p := &periods[i]
		result, err := stmt.ExecContext(ctx,
			p.CompanyID,
			p.OverallPeriodType,
			p.PeriodNumber,
			p.PeriodFrom,
			p.PeriodTo,
			p.FiscalYear,
			p.GeneralLedgerOpen,
			p.AccountsPayableOpen,
		)
		if err != nil {
			return fmt.Errorf("insert period %d: %w", p.PeriodNumber, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = id
	}
	return nil
}

// CloseWindow clears the window flag on every period of periodType.
func (r *calendarRepository) CloseWindow(ctx context.Context, tx *sql.Tx, companyID int64, window PostingWindow, periodType models.OverallPeriodType) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE financial_calendar
		SET %s = 0
		WHERE company_id = ?
		AND overall_period_type_id = ?
	`, window.column)
	result, err := tx.ExecContext(ctx, query, companyID, periodType)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// OpenWindow sets the window flag on periods whose start falls in dateRange.
// Matching nothing is not an error.
func (r *calendarRepository) OpenWindow(ctx context.Context, tx *sql.Tx, companyID int64, window PostingWindow, dateRange models.DateRange) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE financial_calendar
		SET %s = 1
		WHERE company_id = ?
		AND period_from BETWEEN ? AND ?
	`, window.column)
	result, err := tx.ExecContext(ctx, query, companyID,
		models.TruncateDate(dateRange.From),
		models.TruncateDate(dateRange.To),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
