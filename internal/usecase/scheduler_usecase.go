package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/infrastructure/metrics"
)

const (
	recurrenceSweepLock = "scheduler:recurrence"
	interestSweepLock   = "scheduler:interest"
	sweepLockTTL        = 5 * time.Minute
	sweepBatchSize      = 500
)

// SchedulerUseCase turns recurring transaction templates into dated,
// executed occurrences, and accrues interest on savings partitions.
// Idempotency relies on compare-and-advance of the persisted due dates
// inside the same database transaction that applies the mutation; the
// Redis sweep lock only spares concurrent instances the wasted scans.
type SchedulerUseCase struct {
	ledger        *LedgerUseCase
	txManager     TransactionManager
	retrier       Retrier
	accountRepo   AccountRepository
	partitionRepo PartitionRepository
	txnRepo       TransactionRepository
	idGen         IDGenerator
	sweepLock     SweepLock
	logger        zerolog.Logger
	metrics       *metrics.Metrics
}

// NewSchedulerUseCase creates a new SchedulerUseCase.
func NewSchedulerUseCase(
	ledger *LedgerUseCase,
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	partitionRepo PartitionRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	sweepLock SweepLock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *SchedulerUseCase {
	return &SchedulerUseCase{
		ledger:        ledger,
		txManager:     txManager,
		retrier:       retrier,
		accountRepo:   accountRepo,
		partitionRepo: partitionRepo,
		txnRepo:       txnRepo,
		idGen:         idGen,
		sweepLock:     sweepLock,
		logger:        logger,
		metrics:       metrics,
	}
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Scanned  int
	Executed int
	Failed   int
	Skipped  bool
}

// RunSweep executes every recurring occurrence due at or before now.
// A failed occurrence (for example a recurring expense hitting insufficient
// funds) keeps its due date and is retried on the next sweep.
func (uc *SchedulerUseCase) RunSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	start := time.Now()

	acquired, err := uc.sweepLock.Acquire(ctx, recurrenceSweepLock, sweepLockTTL)
	if err != nil {
		return nil, err
	}

	if !acquired {
		if uc.metrics != nil {
			uc.metrics.SweepRuns.WithLabelValues("recurrence", "skipped").Inc()
		}
		return &SweepResult{Skipped: true}, nil
	}
	defer uc.sweepLock.Release(ctx, recurrenceSweepLock)

	due, err := uc.txnRepo.ListDue(ctx, now, sweepBatchSize)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(due)}

	for _, template := range due {
		if err := uc.executeOccurrence(ctx, template.ID, now); err != nil {
			if errors.Is(err, domain.ErrAlreadyExecuted) {
				continue
			}

			result.Failed++
			if uc.metrics != nil {
				uc.metrics.SweepOccurrences.WithLabelValues("failed").Inc()
			}
			uc.logger.Warn().
				Err(err).
				Str("transaction_id", template.ID).
				Msg("recurring occurrence failed, will retry next sweep")

			continue
		}

		result.Executed++
		if uc.metrics != nil {
			uc.metrics.SweepOccurrences.WithLabelValues("executed").Inc()
		}
	}

	if uc.metrics != nil {
		uc.metrics.SweepRuns.WithLabelValues("recurrence", "completed").Inc()
		uc.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}

	return result, nil
}

// executeOccurrence applies one due occurrence of a recurring template.
// The template's next_due_date is compare-and-advanced in the same database
// transaction as the balance mutation, so a retried scan cannot
// double-apply.
func (uc *SchedulerUseCase) executeOccurrence(ctx context.Context, templateID string, now time.Time) error {
	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		template, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, templateID)
		if err != nil {
			return err
		}

		if !template.IsRecurring || template.NextDueDate == nil {
			return domain.ErrNotRecurring
		}

		due := template.NextDueDate.UTC()
		if due.After(now) {
			return domain.ErrAlreadyExecuted
		}

		next := domain.NextOccurrence(due, template.RecurringInterval)

		advanced, err := uc.txnRepo.AdvanceNextDue(ctx, tx, template.ID, due, next)
		if err != nil {
			return err
		}

		if !advanced {
			return domain.ErrAlreadyExecuted
		}

		occurrence := &domain.Transaction{
			ID:             uc.idGen.Generate(),
			OwnerID:        template.OwnerID,
			Type:           template.Type,
			Amount:         template.Amount,
			AccountID:      template.AccountID,
			ToAccountID:    template.ToAccountID,
			PartitionID:    template.PartitionID,
			ToPartitionID:  template.ToPartitionID,
			Category:       template.Category,
			IncomeCategory: template.IncomeCategory,
			Description:    template.Description,
			Date:           due,
			Status:         domain.StatusCompleted,
			CreatedAt:      time.Now().UTC(),
		}

		if err := uc.ledger.applyInTx(ctx, tx, occurrence); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// ExecuteScheduledTransaction is the manual-trigger path: it applies a
// scheduled transaction's mutation and flips it to completed atomically.
func (uc *SchedulerUseCase) ExecuteScheduledTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	var executed *domain.Transaction

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if txn.OwnerID != ownerID {
			return domain.ErrTransactionNotFound
		}

		if txn.Status != domain.StatusScheduled {
			return domain.ErrAlreadyExecuted
		}

		now := time.Now().UTC()

		completed, err := uc.txnRepo.CompleteScheduled(ctx, tx, txn.ID, now)
		if err != nil {
			return err
		}

		if !completed {
			return domain.ErrAlreadyExecuted
		}

		if err := uc.ledger.applyOccurrence(ctx, tx, txn); err != nil {
			return err
		}

		txn.Status = domain.StatusCompleted
		executed = txn

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return executed, nil
}

// RunInterestSweep accrues one period of interest on every savings
// partition whose next accrual date is due. Accrued interest is recorded as
// an income transaction targeted at the partition so the created money shows
// up in the ledger.
func (uc *SchedulerUseCase) RunInterestSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	start := time.Now()

	acquired, err := uc.sweepLock.Acquire(ctx, interestSweepLock, sweepLockTTL)
	if err != nil {
		return nil, err
	}

	if !acquired {
		if uc.metrics != nil {
			uc.metrics.SweepRuns.WithLabelValues("interest", "skipped").Inc()
		}
		return &SweepResult{Skipped: true}, nil
	}
	defer uc.sweepLock.Release(ctx, interestSweepLock)

	due, err := uc.partitionRepo.ListInterestDue(ctx, now, sweepBatchSize)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(due)}

	for _, partition := range due {
		if err := uc.accrueInterest(ctx, partition.ID, now); err != nil {
			if errors.Is(err, domain.ErrAlreadyExecuted) {
				continue
			}

			result.Failed++
			uc.logger.Warn().
				Err(err).
				Str("partition_id", partition.ID).
				Msg("interest accrual failed, will retry next sweep")

			continue
		}

		result.Executed++
		if uc.metrics != nil {
			uc.metrics.InterestAccruals.Inc()
		}
	}

	if uc.metrics != nil {
		uc.metrics.SweepRuns.WithLabelValues("interest", "completed").Inc()
		uc.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}

	return result, nil
}

func (uc *SchedulerUseCase) accrueInterest(ctx context.Context, partitionID string, now time.Time) error {
	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		partition, err := uc.partitionRepo.GetByIDForUpdate(ctx, tx, partitionID)
		if err != nil {
			return err
		}

		if partition.Kind != domain.PartitionKindSavings || partition.NextInterestDate == nil {
			return domain.ErrAlreadyExecuted
		}

		due := partition.NextInterestDate.UTC()
		if due.After(now) {
			return domain.ErrAlreadyExecuted
		}

		interest := partition.InterestForPeriod()
		next := partition.InterestFrequency.NextDate(due)
		total := partition.TotalInterestEarned.Add(interest)

		advanced, err := uc.partitionRepo.AdvanceInterest(ctx, tx, partition.ID, due, next, total, time.Now().UTC())
		if err != nil {
			return err
		}

		if !advanced {
			return domain.ErrAlreadyExecuted
		}

		// A zero-rate partition still advances its schedule.
		if interest.IsZero() {
			return tx.Commit(ctx)
		}

		account, err := uc.accountRepo.GetByID(ctx, partition.AccountID)
		if err != nil {
			return err
		}

		txn := &domain.Transaction{
			ID:             uc.idGen.Generate(),
			OwnerID:        account.OwnerID,
			Type:           domain.TypeIncome,
			Amount:         interest,
			AccountID:      partition.AccountID,
			PartitionID:    &partition.ID,
			IncomeCategory: "interest",
			Description:    "interest accrual",
			Date:           due,
			Status:         domain.StatusCompleted,
			CreatedAt:      time.Now().UTC(),
		}

		if err := uc.ledger.applyInTx(ctx, tx, txn); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}
