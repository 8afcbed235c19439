package services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gl-reconciliation-service/internal/models"
	"gl-reconciliation-service/internal/repositories"
)

type GLSummaryService struct {
	summaryRepo   repositories.GLSummaryRepository
	referenceRepo repositories.ReferenceRepository
	log           *zap.Logger
}

func NewGLSummaryService(
	summaryRepo repositories.GLSummaryRepository,
	referenceRepo repositories.ReferenceRepository,
	log *zap.Logger,
) *GLSummaryService {
	return &GLSummaryService{
		summaryRepo:   summaryRepo,
		referenceRepo: referenceRepo,
		log:           log,
	}
}

type BalanceResult struct {
	AccountNumber        string          `json:"accountNumber"`
	AccountName          string          `json:"accountName"`
	StoreNumber          int             `json:"storeNumber"`
	StoreName            string          `json:"storeName"`
	OverallPeriodType    string          `json:"overallPeriodType"`
	Period               int             `json:"period"`
	Balance              decimal.Decimal `json:"balance"`
	ClosingBalance       decimal.Decimal `json:"closingBalance"`
	ClosingBalanceAgrees bool            `json:"closingBalanceAgrees"`
}

// RunningBalance looks up the summary of one account and store and returns
// its balance through period. Unknown accounts and stores are NotFound.
func (s *GLSummaryService) RunningBalance(ctx context.Context, companyID int64, accountNumber string, storeNumber int, periodType models.OverallPeriodType, period int) (*BalanceResult, error) {
	if period < 1 || period > models.PeriodsPerYear {
		_, err := models.RunningBalance(&models.GeneralLedgerSummary{}, period)
		return nil, err
	}

	account, err := s.referenceRepo.FindAccountByNumber(ctx, companyID, accountNumber)
	if err != nil {
		return nil, err
	}
	store, err := s.referenceRepo.FindStoreByNumber(ctx, companyID, storeNumber)
	if err != nil {
		return nil, err
	}
	summary, err := s.summaryRepo.FindSummary(ctx, companyID, accountNumber, storeNumber, periodType)
	if err != nil {
		return nil, err
	}

	balance, err := models.RunningBalance(summary, period)
	if err != nil {
		return nil, err
	}
	agrees := models.ClosingBalanceAgrees(summary)
	if !agrees {
		s.log.Warn("closing balance disagrees with monthly activity",
			zap.Int64("company_id", companyID),
			zap.String("account", accountNumber),
			zap.Int("store", storeNumber),
			zap.String("period_type", periodType.Code()),
		)
	}

	return &BalanceResult{
		AccountNumber:        account.AccountNumber,
		AccountName:          account.AccountName,
		StoreNumber:          store.StoreNumber,
		StoreName:            store.StoreName,
		OverallPeriodType:    periodType.Code(),
		Period:               period,
		Balance:              balance,
		ClosingBalance:       summary.ClosingBalance,
		ClosingBalanceAgrees: agrees,
	}, nil
}

// TrialBalanceCandidates streams every summary matching filter to fn.
func (s *GLSummaryService) TrialBalanceCandidates(ctx context.Context, companyID int64, filter models.TrialBalanceFilter, fn func(*models.GeneralLedgerSummary) error) error {
	var errs models.ValidationErrors
	if !filter.OverallPeriodType.IsValid() {
		errs = errs.Add("periodType", "is required")
	}
	if filter.AccountFrom != "" && filter.AccountTo != "" && filter.AccountTo < filter.AccountFrom {
		errs = errs.Add("accountTo", "must not be before accountFrom")
	}
	if err := errs.OrNil(); err != nil {
		return err
	}

	var count, disagreeing int
	err := s.summaryRepo.EachTrialBalanceCandidate(ctx, companyID, filter, func(summary *models.GeneralLedgerSummary) error {
		count++
		if !models.ClosingBalanceAgrees(summary) {
			disagreeing++
		}
		return fn(summary)
	})
	if err != nil {
		return err
	}

	s.log.Debug("trial balance candidates streamed",
		zap.Int64("company_id", companyID),
		zap.Int("count", count),
		zap.Int("closing_balance_mismatches", disagreeing),
	)
	return nil
}
