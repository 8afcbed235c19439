package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gl-reconciliation-service/internal/models"
)

var periodColumns = []string{
	"id", "company_id", "overall_period_type_id", "period", "period_from", "period_to",
	"fiscal_year", "gl_open", "ap_open",
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newMockCalendarRepository(t *testing.T) (CalendarRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewCalendarRepository(db), mock, db
}

func TestCalendarRepository_FindPeriodByDate(t *testing.T) {
	t.Run("returns the covering period", func(t *testing.T) {
		repo, mock, db := newMockCalendarRepository(t)
		defer db.Close()

		rows := sqlmock.NewRows(periodColumns).
			AddRow(7, 1, 2, 3, date(2024, 3, 1), date(2024, 3, 31), 2024, true, false)
		mock.ExpectQuery(`FROM financial_calendar\s+WHERE company_id = \?\s+AND \? BETWEEN period_from AND period_to`).
			WithArgs(int64(1), date(2024, 3, 15)).
			WillReturnRows(rows)

		p, err := repo.FindPeriodByDate(context.Background(), 1, time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, int64(7), p.ID)
		assert.Equal(t, models.PeriodTypeCurrent, p.OverallPeriodType)
		assert.Equal(t, 3, p.PeriodNumber)
		assert.True(t, p.GeneralLedgerOpen)
		assert.False(t, p.AccountsPayableOpen)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no period covers the date", func(t *testing.T) {
		repo, mock, db := newMockCalendarRepository(t)
		defer db.Close()

		mock.ExpectQuery(`FROM financial_calendar`).WillReturnRows(sqlmock.NewRows(periodColumns))

		p, err := repo.FindPeriodByDate(context.Background(), 1, date(2030, 1, 1))

		assert.Nil(t, p)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates driver errors", func(t *testing.T) {
		repo, mock, db := newMockCalendarRepository(t)
		defer db.Close()

		mock.ExpectQuery(`FROM financial_calendar`).WillReturnError(errors.New("connection reset"))

		_, err := repo.FindPeriodByDate(context.Background(), 1, date(2024, 1, 1))

		assert.EqualError(t, err, "connection reset")
		assert.NotErrorIs(t, err, models.ErrNotFound)
	})
}

func TestCalendarRepository_ListPeriods(t *testing.T) {
	t.Run("filters by fiscal year", func(t *testing.T) {
		repo, mock, db := newMockCalendarRepository(t)
		defer db.Close()

		rows := sqlmock.NewRows(periodColumns).
			AddRow(1, 1, 2, 1, date(2024, 1, 1), date(2024, 1, 31), 2024, false, false).
			AddRow(2, 1, 2, 2, date(2024, 2, 1), date(2024, 2, 29), 2024, false, true)
		mock.ExpectQuery(`AND fiscal_year = \? ORDER BY period_from`).
			WithArgs(int64(1), 2024).
			WillReturnRows(rows)

		year := 2024
		periods, err := repo.ListPeriods(context.Background(), 1, &year)

		require.NoError(t, err)
		require.Len(t, periods, 2)
		assert.Equal(t, 2, periods[1].PeriodNumber)
		assert.True(t, periods[1].AccountsPayableOpen)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns an empty slice for a company without a calendar", func(t *testing.T) {
		repo, mock, db := newMockCalendarRepository(t)
		defer db.Close()

		mock.ExpectQuery(`FROM financial_calendar`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(periodColumns))

		periods, err := repo.ListPeriods(context.Background(), 9, nil)

		require.NoError(t, err)
		assert.NotNil(t, periods)
		assert.Empty(t, periods)
	})
}

func TestCalendarRepository_Windows(t *testing.T) {
	t.Run("close touches the flag column of the window", func(t *testing.T) {
		repo, mock, db := newMockCalendarRepository(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE financial_calendar\s+SET gl_open = 0\s+WHERE company_id = \?\s+AND overall_period_type_id = \?`).
			WithArgs(int64(1), models.PeriodTypeCurrent).
			WillReturnResult(sqlmock.NewResult(0, 12))
		mock.ExpectExec(`UPDATE financial_calendar\s+SET ap_open = 0`).
			WithArgs(int64(1), models.PeriodTypeCurrent).
			WillReturnResult(sqlmock.NewResult(0, 12))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)
		n, err := repo.CloseWindow(context.Background(), tx, 1, GeneralLedgerWindow, models.PeriodTypeCurrent)
		require.NoError(t, err)
		assert.Equal(t, int64(12), n)
		_, err = repo.CloseWindow(context.Background(), tx, 1, AccountsPayableWindow, models.PeriodTypeCurrent)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open matches on period_from within the range", func(t *testing.T) {
		repo, mock, db := newMockCalendarRepository(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE financial_calendar\s+SET gl_open = 1\s+WHERE company_id = \?\s+AND period_from BETWEEN \? AND \?`).
			WithArgs(int64(1), date(2024, 3, 1), date(2024, 4, 30)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)
		n, err := repo.OpenWindow(context.Background(), tx, 1, GeneralLedgerWindow,
			models.DateRange{From: date(2024, 3, 1), To: date(2024, 4, 30)})
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCalendarRepository_InsertPeriods(t *testing.T) {
	repo, mock, db := newMockCalendarRepository(t)
	defer db.Close()

	periods := models.BuildFiscalYear(1, 2024, date(2024, 1, 1), models.PeriodTypeCurrent)[:2]

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO financial_calendar`)
	prep.ExpectExec().
		WithArgs(int64(1), models.PeriodTypeCurrent, 1, date(2024, 1, 1), date(2024, 1, 31), 2024, false, false).
		WillReturnResult(sqlmock.NewResult(100, 1))
	prep.ExpectExec().
		WithArgs(int64(1), models.PeriodTypeCurrent, 2, date(2024, 2, 1), date(2024, 2, 29), 2024, false, false).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.InsertPeriods(context.Background(), tx, periods))
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(100), periods[0].ID)
	assert.Equal(t, int64(101), periods[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepository_Counts(t *testing.T) {
	repo, mock, db := newMockCalendarRepository(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM financial_calendar\s+WHERE company_id = \?\s+AND period_from <= \?`).
		WithArgs(int64(1), date(2024, 12, 31), date(2024, 1, 1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`AND fiscal_year = \?\s+AND overall_period_type_id = \?`).
		WithArgs(int64(1), 2024, models.PeriodTypeCurrent).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	n, err := repo.CountOverlapping(context.Background(), 1, date(2024, 1, 1), date(2024, 12, 31))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	exists, err := repo.FiscalYearExists(context.Background(), 1, 2024, models.PeriodTypeCurrent)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
