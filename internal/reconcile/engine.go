package reconcile

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"gl-reconciliation-service/internal/models"
)

const (
	// Asset side: a product class with this switch value is not depreciable.
	NonDepreciableProductClass = "N"

	// Contra side: inventory with this indicator has been sold or disposed of.
	DisposedInventoryIndicator = 4
)

type lineKey struct {
	storeNumber   int
	accountNumber string
}

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Run aggregates the joined asset and contra rows into one detail line per
// (account, store) and one rollup line per account. Any error aborts the
// whole report.
func (e *Engine) Run(rows []models.ReconciliationRow) (*models.ReconciliationReport, error) {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, compareRows)

	details := make([]models.ReconciliationLine, 0)
	for key, group := range GroupConsecutive(slices.Values(sorted), rowKey) {
		line, err := detailLine(group)
		if err != nil {
			return nil, fmt.Errorf("account %s store %d: %w", key.accountNumber, key.storeNumber, err)
		}
		details = append(details, line)
	}

	return &models.ReconciliationReport{
		Details: details,
		Rollups: Rollup(details),
	}, nil
}

func rowKey(row models.ReconciliationRow) lineKey {
	return lineKey{storeNumber: row.Inventory.StoreNumber, accountNumber: row.AccountNumber}
}

// compareRows orders by account then store. Year and month only break ties
// so that the first row of a group is deterministic.
func compareRows(a, b models.ReconciliationRow) int {
	return cmp.Or(
		cmp.Compare(a.AccountNumber, b.AccountNumber),
		cmp.Compare(a.Inventory.StoreNumber, b.Inventory.StoreNumber),
		cmp.Compare(a.Inventory.Year, b.Inventory.Year),
		cmp.Compare(a.Inventory.Month, b.Inventory.Month),
	)
}

// detailLine takes its labels, period and GL balance from the first row of the group.
func detailLine(group []models.ReconciliationRow) (models.ReconciliationLine, error) {
	first := group[0]

	glBalance, err := models.RunningBalance(&first.Summary, first.Period)
	if err != nil {
		return models.ReconciliationLine{}, err
	}

	storeNumber := first.Inventory.StoreNumber
	indicator := first.Inventory.CurrentInventoryIndicator
	period := first.Period

	line := models.ReconciliationLine{
		AccountNumber:             first.AccountNumber,
		AccountName:               first.AccountName,
		AccountType:               first.AccountType,
		StoreNumber:               &storeNumber,
		DeprUnits:                 decimal.Zero,
		NonDepr:                   decimal.Zero,
		GLBalance:                 glBalance,
		CurrentInventoryIndicator: &indicator,
		Period:                    &period,
	}

	for _, row := range group {
		amount, nonDepreciable, err := bucket(row)
		if err != nil {
			return models.ReconciliationLine{}, err
		}
		if nonDepreciable {
			line.NonDepr = line.NonDepr.Add(amount)
		} else {
			line.DeprUnits = line.DeprUnits.Add(amount)
		}
	}

	line.ReportTotal = line.DeprUnits.Add(line.NonDepr)
	line.Difference = line.ReportTotal.Sub(line.GLBalance)
	return line, nil
}

// bucket returns a row's contribution and whether it belongs in nonDepr.
// The asset and contra sides use different flags on purpose.
func bucket(row models.ReconciliationRow) (decimal.Decimal, bool, error) {
	switch row.AccountType {
	case models.AccountTypeAsset:
		return row.Inventory.Cost, row.Inventory.ProductClassAllowsDepreciation == NonDepreciableProductClass, nil
	case models.AccountTypeContra:
		return row.Inventory.BookDepreciation, row.Inventory.CurrentInventoryIndicator == DisposedInventoryIndicator, nil
	default:
		return decimal.Zero, false, fmt.Errorf("unknown account type %q", row.AccountType)
	}
}

// Rollup sums detail lines per account number. details must be ordered by
// account number, as Run produces them.
func Rollup(details []models.ReconciliationLine) []models.ReconciliationLine {
	rollups := make([]models.ReconciliationLine, 0)
	byAccount := func(l models.ReconciliationLine) string { return l.AccountNumber }

	for _, group := range GroupConsecutive(slices.Values(details), byAccount) {
		total := models.ReconciliationLine{
			AccountNumber: group[0].AccountNumber,
			AccountName:   group[0].AccountName,
			AccountType:   group[0].AccountType,
			DeprUnits:     decimal.Zero,
			NonDepr:       decimal.Zero,
			ReportTotal:   decimal.Zero,
			GLBalance:     decimal.Zero,
			Difference:    decimal.Zero,
		}
		for _, d := range group {
			total.DeprUnits = total.DeprUnits.Add(d.DeprUnits)
			total.NonDepr = total.NonDepr.Add(d.NonDepr)
			total.ReportTotal = total.ReportTotal.Add(d.ReportTotal)
			total.GLBalance = total.GLBalance.Add(d.GLBalance)
			total.Difference = total.Difference.Add(d.Difference)
		}
		rollups = append(rollups, total)
	}
	return rollups
}
