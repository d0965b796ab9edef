package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/infrastructure/metrics"
)

// AccountUseCase handles account lifecycle. Balance mutations stay with the
// LedgerUseCase; this one only creates, describes, archives, and deletes.
type AccountUseCase struct {
	accountRepo   AccountRepository
	partitionRepo PartitionRepository
	txnRepo       TransactionRepository
	idGen         IDGenerator
	metrics       *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	partitionRepo PartitionRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:   accountRepo,
		partitionRepo: partitionRepo,
		txnRepo:       txnRepo,
		idGen:         idGen,
		metrics:       metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID        string
	Name           string
	Type           domain.AccountType
	Currency       string
	InitialBalance decimal.Decimal
	Color          string
	DisplayOrder   int
	// MaxAccounts is the active-account cap for the owner's plan tier,
	// supplied by the billing collaborator.
	MaxAccounts int
}

// CreateAccount creates a new account, enforcing the plan-tier cap.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if !input.Type.ValidType() {
		input.Type = domain.AccountTypeOther
	}

	if input.InitialBalance.IsNegative() {
		return nil, domain.ErrNegativeInitial
	}

	if input.MaxAccounts > 0 {
		count, err := uc.accountRepo.CountActive(ctx, input.OwnerID)
		if err != nil {
			return nil, err
		}

		if count >= input.MaxAccounts {
			return nil, domain.ErrLimitExceeded
		}
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		Name:           input.Name,
		Type:           input.Type,
		Currency:       input.Currency,
		CurrentBalance: input.InitialBalance,
		InitialBalance: input.InitialBalance,
		Color:          input.Color,
		DisplayOrder:   input.DisplayOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account owned by the caller.
func (uc *AccountUseCase) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.OwnerID != ownerID {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// ListAccounts lists an owner's accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.accountRepo.List(ctx, ownerID, limit, offset)
}

// UpdateAccountInput represents mutable display attributes.
type UpdateAccountInput struct {
	Name         string
	Color        string
	DisplayOrder int
}

// UpdateAccount updates display attributes of an account.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, ownerID, id string, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.GetAccount(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		input.Name = account.Name
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateDetails(ctx, id, input.Name, input.Color, input.DisplayOrder, now); err != nil {
		return nil, err
	}

	account.Name = input.Name
	account.Color = input.Color
	account.DisplayOrder = input.DisplayOrder
	account.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("update").Inc()
	}

	return account, nil
}

// ArchiveAccount soft-deletes an account.
func (uc *AccountUseCase) ArchiveAccount(ctx context.Context, ownerID, id string) error {
	if _, err := uc.GetAccount(ctx, ownerID, id); err != nil {
		return err
	}

	if err := uc.accountRepo.SetArchived(ctx, id, true, time.Now().UTC()); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("archive").Inc()
	}

	return nil
}

// DeleteAccount removes an account. Accounts with partitions are rejected;
// accounts referenced by transaction history are archived instead of
// hard-deleted. The checks run without a surrounding transaction: a
// partition created after the check makes the delete fail on the foreign
// key, and new history can only appear through the ledger, which locks the
// account row.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, ownerID, id string) error {
	if _, err := uc.GetAccount(ctx, ownerID, id); err != nil {
		return err
	}

	partitions, err := uc.partitionRepo.ListByAccount(ctx, id)
	if err != nil {
		return err
	}

	if len(partitions) > 0 {
		return domain.ErrAccountHasPartitions
	}

	hasHistory, err := uc.txnRepo.ExistsForAccount(ctx, id)
	if err != nil {
		return err
	}

	if hasHistory {
		if err := uc.accountRepo.SetArchived(ctx, id, true, time.Now().UTC()); err != nil {
			return err
		}
	} else {
		if err := uc.accountRepo.Delete(ctx, id); err != nil {
			return err
		}
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("delete").Inc()
	}

	return nil
}
