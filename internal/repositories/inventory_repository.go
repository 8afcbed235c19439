package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gl-reconciliation-service/internal/models"
)

// ReconciliationScope restricts the joined stream to one resolved fiscal
// period and the inventory snapshot month derived from the as-of date.
type ReconciliationScope struct {
	PeriodID int64
	Year     int
	Month    int
}

type InventoryRepository interface {
	ReconciliationRows(ctx context.Context, companyID int64, scope *ReconciliationScope) ([]models.ReconciliationRow, error)
}

type inventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// joinSide maps one of the two account columns of inventory_eom to the
// account type its rows are tagged with.
type joinSide struct {
	accountType   models.AccountType
	accountColumn string
}

var joinSides = []joinSide{
	{accountType: models.AccountTypeAsset, accountColumn: "asset_account_id"},
	{accountType: models.AccountTypeContra, accountColumn: "contra_asset_account_id"},
}

const (
	scopedPeriodJoin = `JOIN financial_calendar fc ON fc.id = ? AND fc.company_id = inv.company_id`
	scopedFilter     = `AND inv.year = ? AND inv.month = ?`

	// Without an as-of date each snapshot joins the period holding its month end.
	snapshotPeriodJoin = `JOIN financial_calendar fc ON fc.company_id = inv.company_id
			AND LAST_DAY(MAKEDATE(inv.year, 1) + INTERVAL (inv.month - 1) MONTH) BETWEEN fc.period_from AND fc.period_to`
)

func sideQuery(side joinSide, periodJoin, filter string) string {
	return fmt.Sprintf(`
		SELECT
			a.account_number AS sort_account, a.account_name, '%s' AS account_type, fc.period,
			pc.store_number AS sort_store, inv.year AS sort_year, inv.month AS sort_month,
			inv.cost, inv.book_depreciation, inv.asset_account_id, inv.contra_asset_account_id,
			inv.current_inv_ind, COALESCE(cls.allow_depreciation_switch, '') AS allow_depreciation_switch,
			inv.company_id,
			%s
		FROM inventory_eom inv
		JOIN profit_centers pc ON pc.id = inv.profit_center_id
		LEFT JOIN product_classes cls ON cls.id = inv.product_class_id
		JOIN accounts a ON a.id = inv.%s
		%s
		JOIN gl_summary gl ON gl.company_id = inv.company_id
			AND gl.account_id = inv.%s
			AND gl.profit_center_id = inv.profit_center_id
			AND gl.overall_period_type_id = fc.overall_period_type_id
		WHERE inv.company_id = ?
		%s`,
		side.accountType, summaryColumns, side.accountColumn, periodJoin, side.accountColumn, filter)
}

func reconciliationQuery(scope *ReconciliationScope, companyID int64) (string, []any) {
	periodJoin, filter := snapshotPeriodJoin, ""
	if scope != nil {
		periodJoin, filter = scopedPeriodJoin, scopedFilter
	}

	parts := make([]string, 0, len(joinSides))
	var args []any
	for _, side := range joinSides {
		parts = append(parts, "("+sideQuery(side, periodJoin, filter)+")")
		if scope != nil {
			args = append(args, scope.PeriodID, companyID, scope.Year, scope.Month)
		} else {
			args = append(args, companyID)
		}
	}

	query := strings.Join(parts, "\n\t\tUNION ALL\n") +
		"\n\t\tORDER BY sort_account, sort_store, sort_year, sort_month"
	return query, args
}

// ReconciliationRows returns every inventory snapshot twice, once through its
// asset account and once through its contra account, each inner-joined to the
// matching GL summary. A snapshot without a summary on one side yields no row
// for that side.
func (r *inventoryRepository) ReconciliationRows(ctx context.Context, companyID int64, scope *ReconciliationScope) ([]models.ReconciliationRow, error) {
	query, args := reconciliationQuery(scope, companyID)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]models.ReconciliationRow, 0)
	for rows.Next() {
		var row models.ReconciliationRow
		inv := &row.Inventory
		targets := []any{
			&row.AccountNumber,
			&row.AccountName,
			&row.AccountType,
			&row.Period,
			&inv.StoreNumber,
			&inv.Year,
			&inv.Month,
			&inv.Cost,
			&inv.BookDepreciation,
			&inv.AssetAccountID,
			&inv.ContraAssetAccountID,
			&inv.CurrentInventoryIndicator,
			&inv.ProductClassAllowsDepreciation,
			&inv.CompanyID,
		}
		if err := rows.Scan(append(targets, summaryTargets(&row.Summary)...)...); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
