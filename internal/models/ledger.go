package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GeneralLedgerSummary is the monthly activity ledger of one
// (company, account, profit center, overall period type) tuple.
// NetActivity[0] holds period 1; an invalid slot means no activity was posted.
type GeneralLedgerSummary struct {
	ID                int64                               `json:"id"`
	CompanyID         int64                               `json:"companyId"`
	AccountID         int64                               `json:"accountId"`
	AccountNumber     string                              `json:"accountNumber"`
	ProfitCenterID    int64                               `json:"profitCenterId"`
	StoreNumber       int                                 `json:"storeNumber"`
	OverallPeriodType OverallPeriodType                   `json:"overallPeriodType"`
	BeginningBalance  decimal.Decimal                     `json:"beginningBalance"`
	NetActivity       [PeriodsPerYear]decimal.NullDecimal `json:"netActivity"`
	ClosingBalance    decimal.Decimal                     `json:"closingBalance"`
}

// RunningBalance is the beginning balance plus net activity for periods
// 1..throughPeriod, with a missing slot counted as zero.
func RunningBalance(summary *GeneralLedgerSummary, throughPeriod int) (decimal.Decimal, error) {
	if throughPeriod < 1 || throughPeriod > PeriodsPerYear {
		return decimal.Zero, ValidationErrors{}.Add("period",
			fmt.Sprintf("must be between 1 and %d, got %d", PeriodsPerYear, throughPeriod))
	}

	balance := summary.BeginningBalance
	for _, slot := range summary.NetActivity[:throughPeriod] {
		if !slot.Valid {
			continue
		}
		balance = balance.Add(slot.Decimal)
	}
	return balance, nil
}

// ClosingBalanceAgrees checks that twelve periods of activity land on the
// stored closing balance.
func ClosingBalanceAgrees(summary *GeneralLedgerSummary) bool {
	balance, _ := RunningBalance(summary, PeriodsPerYear)
	return balance.Equal(summary.ClosingBalance)
}

// TrialBalanceFilter narrows trialBalanceCandidates. Empty bounds are open.
type TrialBalanceFilter struct {
	OverallPeriodType OverallPeriodType
	AccountFrom       string
	AccountTo         string
	StoreNumber       *int
}
