package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/infrastructure/metrics"
)

// PartitionUseCase handles partition lifecycle. Creation moves funds out of
// the parent account's balance; deletion returns the full balance. Both run
// atomically against locked rows.
type PartitionUseCase struct {
	txManager     TransactionManager
	retrier       Retrier
	accountRepo   AccountRepository
	partitionRepo PartitionRepository
	idGen         IDGenerator
	metrics       *metrics.Metrics
}

// NewPartitionUseCase creates a new PartitionUseCase.
func NewPartitionUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	partitionRepo PartitionRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PartitionUseCase {
	return &PartitionUseCase{
		txManager:     txManager,
		retrier:       retrier,
		accountRepo:   accountRepo,
		partitionRepo: partitionRepo,
		idGen:         idGen,
		metrics:       metrics,
	}
}

// CreatePartitionInput represents input for creating a partition.
type CreatePartitionInput struct {
	Name   string
	Kind   domain.PartitionKind
	Amount decimal.Decimal

	// Savings fields
	InterestRate      decimal.Decimal
	InterestFrequency domain.InterestFrequency

	// Investment fields
	Holdings []domain.Holding
}

// CreatePartition ring-fences amount out of the parent account into a new
// partition. The amount must not exceed the account's current balance.
func (uc *PartitionUseCase) CreatePartition(ctx context.Context, ownerID, accountID string, input CreatePartitionInput) (*domain.Partition, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if !input.Kind.ValidKind() {
		return nil, domain.ErrInvalidType
	}

	if input.Kind == domain.PartitionKindInvestment {
		if err := domain.ValidateHoldings(input.Holdings); err != nil {
			return nil, err
		}
	}

	var partition *domain.Partition

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		if account.OwnerID != ownerID {
			return domain.ErrAccountNotFound
		}

		if account.Archived {
			return domain.ErrAccountArchived
		}

		if err := account.ValidateDebit(input.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()

		partition = &domain.Partition{
			ID:        uc.idGen.Generate(),
			AccountID: accountID,
			Name:      input.Name,
			Kind:      input.Kind,
			Balance:   input.Amount,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if input.Kind == domain.PartitionKindSavings {
			frequency := input.InterestFrequency
			if frequency == "" {
				frequency = domain.InterestYearly
			}

			next := frequency.NextDate(now)
			partition.InterestRate = input.InterestRate
			partition.InterestFrequency = frequency
			partition.NextInterestDate = &next
		} else {
			partition.Holdings = input.Holdings
		}

		if err := uc.partitionRepo.Create(ctx, tx, partition); err != nil {
			return err
		}

		if err := uc.accountRepo.UpdateBalance(ctx, tx, accountID, account.ApplyDebit(input.Amount), now); err != nil {
			return err
		}

		if !account.HasPartitions {
			if err := uc.accountRepo.SetHasPartitions(ctx, tx, accountID, true, now); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PartitionsCreated.Inc()
	}

	return partition, nil
}

// DeletePartition returns a partition's full balance to the parent account
// and removes the record.
func (uc *PartitionUseCase) DeletePartition(ctx context.Context, ownerID, accountID, partitionID string) error {
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		if account.OwnerID != ownerID {
			return domain.ErrAccountNotFound
		}

		partition, err := uc.partitionRepo.GetByIDForUpdate(ctx, tx, partitionID)
		if err != nil {
			return err
		}

		if partition.AccountID != accountID {
			return domain.ErrPartitionMismatch
		}

		now := time.Now().UTC()

		if err := uc.accountRepo.UpdateBalance(ctx, tx, accountID, account.ApplyCredit(partition.Balance), now); err != nil {
			return err
		}

		if err := uc.partitionRepo.Delete(ctx, tx, partitionID); err != nil {
			return err
		}

		remaining, err := uc.partitionRepo.CountByAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}

		if remaining == 0 {
			if err := uc.accountRepo.SetHasPartitions(ctx, tx, accountID, false, now); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.PartitionsDeleted.Inc()
	}

	return nil
}

// GetPartition retrieves a partition under an account owned by the caller.
func (uc *PartitionUseCase) GetPartition(ctx context.Context, ownerID, accountID, partitionID string) (*domain.Partition, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.OwnerID != ownerID {
		return nil, domain.ErrAccountNotFound
	}

	partition, err := uc.partitionRepo.GetByID(ctx, partitionID)
	if err != nil {
		return nil, err
	}

	if partition.AccountID != accountID {
		return nil, domain.ErrPartitionMismatch
	}

	return partition, nil
}

// ListPartitions lists the partitions of an account owned by the caller.
func (uc *PartitionUseCase) ListPartitions(ctx context.Context, ownerID, accountID string) ([]*domain.Partition, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.OwnerID != ownerID {
		return nil, domain.ErrAccountNotFound
	}

	return uc.partitionRepo.ListByAccount(ctx, accountID)
}

// UpdateHoldings replaces the holding targets of an investment partition.
func (uc *PartitionUseCase) UpdateHoldings(ctx context.Context, ownerID, accountID, partitionID string, holdings []domain.Holding) (*domain.Partition, error) {
	partition, err := uc.GetPartition(ctx, ownerID, accountID, partitionID)
	if err != nil {
		return nil, err
	}

	if partition.Kind != domain.PartitionKindInvestment {
		return nil, domain.ErrNotInvestmentKind
	}

	if err := domain.ValidateHoldings(holdings); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.partitionRepo.UpdateHoldings(ctx, partitionID, holdings, now); err != nil {
		return nil, err
	}

	partition.Holdings = holdings
	partition.UpdatedAt = now

	return partition, nil
}
