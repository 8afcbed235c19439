package repositories

import (
	"context"
	"database/sql"
	"errors"

	"gl-reconciliation-service/internal/models"
)

type Account struct {
	ID            int64  `json:"id"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type Store struct {
	ID          int64  `json:"id"`
	StoreNumber int    `json:"storeNumber"`
	StoreName   string `json:"storeName"`
}

// ReferenceRepository resolves account and store labels. Both are maintained
// elsewhere; this service only reads them.
type ReferenceRepository interface {
	FindAccountByNumber(ctx context.Context, companyID int64, accountNumber string) (*Account, error)
	FindStoreByNumber(ctx context.Context, companyID int64, storeNumber int) (*Store, error)
}

type referenceRepository struct {
	db *sql.DB
}

func NewReferenceRepository(db *sql.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) FindAccountByNumber(ctx context.Context, companyID int64, accountNumber string) (*Account, error) {
	a := &Account{}
	query := `
		SELECT id, account_number, account_name
		FROM accounts
		WHERE company_id = ?
		AND account_number = ?
	`
	err := r.db.QueryRowContext(ctx, query, companyID, accountNumber).Scan(
		&a.ID,
		&a.AccountNumber,
		&a.AccountName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("account", "%s", accountNumber)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *referenceRepository) FindStoreByNumber(ctx context.Context, companyID int64, storeNumber int) (*Store, error) {
	s := &Store{}
	query := `
		SELECT id, store_number, store_name
		FROM profit_centers
		WHERE company_id = ?
		AND store_number = ?
	`
	err := r.db.QueryRowContext(ctx, query, companyID, storeNumber).Scan(
		&s.ID,
		&s.StoreNumber,
		&s.StoreName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("profit center", "store %d", storeNumber)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
