package models

import (
	"github.com/shopspring/decimal"
)

// AccountType says which side of an inventory record a reconciliation row came from.
type AccountType string

const (
	AccountTypeAsset  AccountType = "Asset"
	AccountTypeContra AccountType = "Contra"
)

// InventoryEndOfMonth is one store's month-end snapshot of an asset, already
// joined to its product class depreciation switch.
type InventoryEndOfMonth struct {
	CompanyID                      int64           `json:"companyId"`
	StoreNumber                    int             `json:"storeNumber"`
	Year                           int             `json:"year"`
	Month                          int             `json:"month"`
	Cost                           decimal.Decimal `json:"cost"`
	BookDepreciation               decimal.Decimal `json:"bookDepreciation"`
	AssetAccountID                 int64           `json:"assetAccountId"`
	ContraAssetAccountID           int64           `json:"contraAssetAccountId"`
	CurrentInventoryIndicator      int             `json:"currentInventoryIndicator"`
	ProductClassAllowsDepreciation string          `json:"productClassAllowsDepreciation"`
}

// ReconciliationRow is an inventory record seen through one of its two
// accounts and inner-joined to that account's GL summary and fiscal period.
type ReconciliationRow struct {
	AccountNumber string
	AccountName   string
	AccountType   AccountType
	Period        int
	Inventory     InventoryEndOfMonth
	Summary       GeneralLedgerSummary
}

// ReconciliationLine is a detail line per (account, store) or, with a nil
// StoreNumber, the rollup of an account across stores.
type ReconciliationLine struct {
	AccountNumber             string          `json:"accountNumber"`
	AccountName               string          `json:"accountName"`
	AccountType               AccountType     `json:"accountType"`
	StoreNumber               *int            `json:"storeNumber"`
	DeprUnits                 decimal.Decimal `json:"deprUnits"`
	NonDepr                   decimal.Decimal `json:"nonDepr"`
	ReportTotal               decimal.Decimal `json:"reportTotal"`
	GLBalance                 decimal.Decimal `json:"glBalance"`
	Difference                decimal.Decimal `json:"difference"`
	CurrentInventoryIndicator *int            `json:"currentInventoryIndicator,omitempty"`
	Period                    *int            `json:"period,omitempty"`
}

type ReconciliationReport struct {
	Details []ReconciliationLine `json:"details"`
	Rollups []ReconciliationLine `json:"rollups"`
}
