package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	SetHasPartitions(ctx context.Context, tx Transaction, id string, has bool, updatedAt time.Time) error
	UpdateDetails(ctx context.Context, id, name, color string, displayOrder int, updatedAt time.Time) error
	SetArchived(ctx context.Context, id string, archived bool, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	CountActive(ctx context.Context, ownerID string) (int, error)
}

// PartitionRepository defines data access for partitions.
type PartitionRepository interface {
	Create(ctx context.Context, tx Transaction, partition *domain.Partition) error
	GetByID(ctx context.Context, id string) (*domain.Partition, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Partition, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Partition, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateHoldings(ctx context.Context, id string, holdings []domain.Holding, updatedAt time.Time) error
	// AdvanceInterest moves the accrual schedule forward only if the stored
	// next date still equals due; false means someone else already accrued.
	AdvanceInterest(ctx context.Context, tx Transaction, id string, due, next time.Time, totalEarned decimal.Decimal, updatedAt time.Time) (bool, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Partition, error)
	ListInterestDue(ctx context.Context, now time.Time, limit int) ([]*domain.Partition, error)
	CountByAccount(ctx context.Context, tx Transaction, accountID string) (int, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	AccountID string
	Type      domain.TransactionType
	Limit     int
	Offset    int
}

// AccountFlows aggregates the completed flows touching one account.
type AccountFlows struct {
	Income       decimal.Decimal
	Expense      decimal.Decimal
	TransfersIn  decimal.Decimal
	TransfersOut decimal.Decimal
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, ownerID string, filter TransactionFilter) ([]*domain.Transaction, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Transaction, error)
	// AdvanceNextDue moves a recurring template's due date forward only if
	// the stored date still equals due; false means the occurrence was
	// already executed by a concurrent sweep.
	AdvanceNextDue(ctx context.Context, tx Transaction, id string, due, next time.Time) (bool, error)
	// CompleteScheduled flips scheduled to completed; false means the
	// transaction was not in scheduled state.
	CompleteScheduled(ctx context.Context, tx Transaction, id string, completedAt time.Time) (bool, error)
	ExistsForAccount(ctx context.Context, accountID string) (bool, error)
	SumFlows(ctx context.Context, accountID string) (*AccountFlows, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on retryable store conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SweepLock prevents concurrent scheduler sweeps across instances.
type SweepLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
