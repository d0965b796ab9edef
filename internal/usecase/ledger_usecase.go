package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/infrastructure/metrics"
)

// Transfer directions for the partition transfer wrappers.
const (
	DirectionToPartition = "toPartition"
	DirectionToAccount   = "toAccount"
)

// LedgerUseCase is the only code path that mutates account and partition
// balances. It validates a transaction, routes it to a debit/credit set,
// applies the set atomically against locked rows, and records the
// transaction; reversal applies the inverse set and removes the record.
type LedgerUseCase struct {
	txManager     TransactionManager
	retrier       Retrier
	accountRepo   AccountRepository
	partitionRepo PartitionRepository
	txnRepo       TransactionRepository
	idGen         IDGenerator
	metrics       *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	partitionRepo PartitionRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:     txManager,
		retrier:       retrier,
		accountRepo:   accountRepo,
		partitionRepo: partitionRepo,
		txnRepo:       txnRepo,
		idGen:         idGen,
		metrics:       metrics,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	OwnerID           string
	Type              domain.TransactionType
	Amount            decimal.Decimal
	AccountID         string
	ToAccountID       *string
	PartitionID       *string
	ToPartitionID     *string
	Category          string
	IncomeCategory    string
	Description       string
	Date              *time.Time
	IsRecurring       bool
	RecurringInterval domain.RecurringInterval
	// Scheduled creates the record without applying its mutation; the
	// scheduler's execute path applies it later.
	Scheduled bool
}

// CreateTransaction validates, applies, and records one ledger event.
func (uc *LedgerUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()

	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}

	txn := &domain.Transaction{
		ID:                uc.idGen.Generate(),
		OwnerID:           input.OwnerID,
		Type:              input.Type,
		Amount:            input.Amount,
		AccountID:         input.AccountID,
		ToAccountID:       input.ToAccountID,
		PartitionID:       input.PartitionID,
		ToPartitionID:     input.ToPartitionID,
		Category:          input.Category,
		IncomeCategory:    input.IncomeCategory,
		Description:       input.Description,
		Date:              date,
		IsRecurring:       input.IsRecurring,
		RecurringInterval: input.RecurringInterval,
		Status:            domain.StatusCompleted,
		CreatedAt:         now,
	}

	if input.Scheduled {
		txn.Status = domain.StatusScheduled
	}

	if input.IsRecurring {
		next := domain.NextOccurrence(date, input.RecurringInterval)
		txn.NextDueDate = &next
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if txn.Status == domain.StatusScheduled {
		// No balance mutation yet; just persist the record.
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback(ctx)

		if err := uc.resolveEndpoints(ctx, tx, txn); err != nil {
			return nil, err
		}

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return nil, err
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		if uc.metrics != nil {
			uc.metrics.TransactionsCreated.WithLabelValues(string(txn.Type)).Inc()
		}

		return txn, nil
	}

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.applyInTx(ctx, tx, txn); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.TransactionErrors.WithLabelValues("create").Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.WithLabelValues(string(txn.Type)).Inc()
		uc.metrics.TransactionAmount.Observe(txn.Amount.InexactFloat64())
	}

	return txn, nil
}

// ReverseTransaction applies the inverse of a committed transaction's
// mutation and deletes the record. The side being debited back is still
// checked for sufficiency: if the credited funds were spent in the interim
// the reversal fails with ErrInsufficientFunds rather than driving a
// balance negative.
func (uc *LedgerUseCase) ReverseTransaction(ctx context.Context, ownerID, id string) error {
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

		// A scheduled transaction never had its mutation applied.
		if txn.Status != domain.StatusScheduled {
			posting, err := domain.Route(txn)
			if err != nil {
				return err
			}

			if err := uc.applyPosting(ctx, tx, txn, posting.Inverse(), true); err != nil {
				return err
			}
		}

		if err := uc.txnRepo.Delete(ctx, tx, txn.ID); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.TransactionErrors.WithLabelValues("reverse").Inc()
		}
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsReversed.Inc()
	}

	return nil
}

// TransferFunds moves funds between an account and one of its partitions.
func (uc *LedgerUseCase) TransferFunds(ctx context.Context, ownerID, accountID, partitionID string, amount decimal.Decimal, direction string) (*domain.Transaction, error) {
	var txType domain.TransactionType

	switch direction {
	case DirectionToPartition:
		txType = domain.TypePartitionIn
	case DirectionToAccount:
		txType = domain.TypePartitionOut
	default:
		return nil, domain.ErrInvalidDirection
	}

	return uc.CreateTransaction(ctx, CreateTransactionInput{
		OwnerID:     ownerID,
		Type:        txType,
		Amount:      amount,
		AccountID:   accountID,
		PartitionID: &partitionID,
	})
}

// TransferBetweenPartitions moves funds between two partitions of the same account.
func (uc *LedgerUseCase) TransferBetweenPartitions(ctx context.Context, ownerID, accountID, sourceID, destID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return uc.CreateTransaction(ctx, CreateTransactionInput{
		OwnerID:       ownerID,
		Type:          domain.TypePartitionTransfer,
		Amount:        amount,
		AccountID:     accountID,
		PartitionID:   &sourceID,
		ToPartitionID: &destID,
	})
}

// GetTransaction retrieves a transaction by ID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if txn.OwnerID != ownerID {
		return nil, domain.ErrTransactionNotFound
	}

	return txn, nil
}

// ListTransactions lists an owner's transactions.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]*domain.Transaction, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.txnRepo.List(ctx, ownerID, filter)
}

// applyInTx routes a transaction, applies its posting, and records it,
// all inside the caller's database transaction.
func (uc *LedgerUseCase) applyInTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error {
	posting, err := domain.Route(txn)
	if err != nil {
		return err
	}

	if err := uc.applyPosting(ctx, tx, txn, posting, false); err != nil {
		return err
	}

	return uc.txnRepo.Create(ctx, tx, txn)
}

// applyOccurrence applies the posting of an already-recorded transaction.
// Used by the scheduler's execute paths.
func (uc *LedgerUseCase) applyOccurrence(ctx context.Context, tx Transaction, txn *domain.Transaction) error {
	posting, err := domain.Route(txn)
	if err != nil {
		return err
	}

	return uc.applyPosting(ctx, tx, txn, posting, false)
}

// applyPosting locks every touched account and partition in sorted ID order,
// re-validates against the locked balances, and writes the new balances.
// Lock ordering is the deadlock prevention: concurrent invocations touching
// the same rows always acquire them in the same order.
func (uc *LedgerUseCase) applyPosting(ctx context.Context, tx Transaction, txn *domain.Transaction, posting domain.Posting, reversal bool) error {
	accountIDs := []string{txn.AccountID}
	if txn.ToAccountID != nil && *txn.ToAccountID != "" {
		accountIDs = append(accountIDs, *txn.ToAccountID)
	}
	sort.Strings(accountIDs)

	var partitionIDs []string
	if txn.PartitionID != nil && *txn.PartitionID != "" {
		partitionIDs = append(partitionIDs, *txn.PartitionID)
	}
	if txn.ToPartitionID != nil && *txn.ToPartitionID != "" {
		partitionIDs = append(partitionIDs, *txn.ToPartitionID)
	}
	sort.Strings(partitionIDs)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	if len(accounts) != len(accountIDs) {
		return domain.ErrAccountNotFound
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		if a.OwnerID != txn.OwnerID {
			return domain.ErrAccountNotFound
		}

		if a.Archived && !reversal {
			return domain.ErrAccountArchived
		}

		accountMap[a.ID] = a
	}

	if txn.Type == domain.TypeTransfer {
		from := accountMap[txn.AccountID]
		to := accountMap[*txn.ToAccountID]
		if from.Currency != to.Currency {
			return domain.ErrCurrencyMismatch
		}
	}

	partitionMap := make(map[string]*domain.Partition, len(partitionIDs))
	if len(partitionIDs) > 0 {
		partitions, err := uc.partitionRepo.GetByIDsForUpdate(ctx, tx, partitionIDs)
		if err != nil {
			return err
		}

		if len(partitions) != len(partitionIDs) {
			return domain.ErrPartitionNotFound
		}

		for _, p := range partitions {
			if p.AccountID != txn.AccountID {
				return domain.ErrPartitionMismatch
			}

			partitionMap[p.ID] = p
		}
	}

	now := time.Now().UTC()

	for _, leg := range posting.Debits {
		switch leg.Target.Kind {
		case domain.EndpointAccount:
			account := accountMap[leg.Target.ID]
			if account == nil {
				return domain.ErrAccountNotFound
			}

			if err := account.ValidateDebit(leg.Amount); err != nil {
				return err
			}

			newBalance := account.ApplyDebit(leg.Amount)
			if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
				return err
			}

			account.CurrentBalance = newBalance

		case domain.EndpointPartition:
			partition := partitionMap[leg.Target.ID]
			if partition == nil {
				return domain.ErrPartitionNotFound
			}

			if err := partition.ValidateDebit(leg.Amount); err != nil {
				return err
			}

			newBalance := partition.ApplyDebit(leg.Amount)
			if err := uc.partitionRepo.UpdateBalance(ctx, tx, partition.ID, newBalance, now); err != nil {
				return err
			}

			partition.Balance = newBalance
		}
	}

	for _, leg := range posting.Credits {
		switch leg.Target.Kind {
		case domain.EndpointAccount:
			account := accountMap[leg.Target.ID]
			if account == nil {
				return domain.ErrAccountNotFound
			}

			newBalance := account.ApplyCredit(leg.Amount)
			if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
				return err
			}

			account.CurrentBalance = newBalance

		case domain.EndpointPartition:
			partition := partitionMap[leg.Target.ID]
			if partition == nil {
				return domain.ErrPartitionNotFound
			}

			newBalance := partition.ApplyCredit(leg.Amount)
			if err := uc.partitionRepo.UpdateBalance(ctx, tx, partition.ID, newBalance, now); err != nil {
				return err
			}

			partition.Balance = newBalance
		}
	}

	return nil
}

// resolveEndpoints verifies that a scheduled transaction's endpoints exist
// and are owned by the caller, without mutating anything.
func (uc *LedgerUseCase) resolveEndpoints(ctx context.Context, tx Transaction, txn *domain.Transaction) error {
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, txn.AccountID)
	if err != nil {
		return err
	}

	if account.OwnerID != txn.OwnerID {
		return domain.ErrAccountNotFound
	}

	if account.Archived {
		return domain.ErrAccountArchived
	}

	if txn.ToAccountID != nil && *txn.ToAccountID != "" {
		to, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, *txn.ToAccountID)
		if err != nil {
			return err
		}

		if to.OwnerID != txn.OwnerID {
			return domain.ErrAccountNotFound
		}
	}

	for _, pid := range []*string{txn.PartitionID, txn.ToPartitionID} {
		if pid == nil || *pid == "" {
			continue
		}

		partition, err := uc.partitionRepo.GetByIDForUpdate(ctx, tx, *pid)
		if err != nil {
			return err
		}

		if partition.AccountID != txn.AccountID {
			return domain.ErrPartitionMismatch
		}
	}

	return nil
}
