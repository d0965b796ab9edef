package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/infrastructure/metrics"
)

const conservationCacheTTL = 30 * time.Second

// ConservationUseCase verifies the conservation invariant: for every
// account, current balance plus partition balances must equal the initial
// balance plus net income/expense and net account transfers. Everything
// else the engine does is a redistribution and must cancel out.
type ConservationUseCase struct {
	accountRepo   AccountRepository
	partitionRepo PartitionRepository
	txnRepo       TransactionRepository
	cache         Cache
	metrics       *metrics.Metrics
}

// NewConservationUseCase creates a new ConservationUseCase.
func NewConservationUseCase(
	accountRepo AccountRepository,
	partitionRepo PartitionRepository,
	txnRepo TransactionRepository,
	cache Cache,
	metrics *metrics.Metrics,
) *ConservationUseCase {
	return &ConservationUseCase{
		accountRepo:   accountRepo,
		partitionRepo: partitionRepo,
		txnRepo:       txnRepo,
		cache:         cache,
		metrics:       metrics,
	}
}

// AccountConservation is the per-account check result.
type AccountConservation struct {
	AccountID       string          `json:"account_id"`
	ActualBalance   decimal.Decimal `json:"actual_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Consistent      bool            `json:"consistent"`
}

// ConservationReport is the result of checking one owner's accounts.
type ConservationReport struct {
	OwnerID       string                 `json:"owner_id"`
	TotalAccounts int                    `json:"total_accounts"`
	Consistent    bool                   `json:"consistent"`
	Accounts      []*AccountConservation `json:"accounts"`
	CheckedAt     time.Time              `json:"checked_at"`
}

// CheckOwner checks the conservation invariant over all of an owner's
// accounts. Reports are cached briefly; the check is read-only and
// best-effort with respect to in-flight commits.
func (uc *ConservationUseCase) CheckOwner(ctx context.Context, ownerID string) (*ConservationReport, error) {
	cacheKey := "conservation:" + ownerID

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var report ConservationReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		}
	}

	limit, offset := domain.ValidatePagination(1000, 0)
	accounts, err := uc.accountRepo.List(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}

	report := &ConservationReport{
		OwnerID:       ownerID,
		TotalAccounts: len(accounts),
		Consistent:    true,
		Accounts:      make([]*AccountConservation, 0, len(accounts)),
		CheckedAt:     time.Now().UTC(),
	}

	for _, account := range accounts {
		partitionSum, err := uc.partitionRepo.SumByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		flows, err := uc.txnRepo.SumFlows(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		actual := account.CurrentBalance.Add(partitionSum)
		expected := account.InitialBalance.
			Add(flows.Income).
			Sub(flows.Expense).
			Add(flows.TransfersIn).
			Sub(flows.TransfersOut)

		check := &AccountConservation{
			AccountID:       account.ID,
			ActualBalance:   actual,
			ExpectedBalance: expected,
			Difference:      actual.Sub(expected),
			Consistent:      actual.Equal(expected),
		}

		if !check.Consistent {
			report.Consistent = false
			if uc.metrics != nil {
				uc.metrics.ConservationBreaches.Inc()
			}
		}

		report.Accounts = append(report.Accounts, check)
	}

	if uc.metrics != nil {
		uc.metrics.ConservationChecks.Inc()
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(report); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, string(encoded), conservationCacheTTL)
		}
	}

	return report, nil
}
