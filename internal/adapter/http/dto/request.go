package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Color          string          `json:"color,omitempty"`
	DisplayOrder   int             `json:"display_order,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ownerID string, maxAccounts int) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:        ownerID,
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		Currency:       r.Currency,
		InitialBalance: r.InitialBalance,
		Color:          r.Color,
		DisplayOrder:   r.DisplayOrder,
		MaxAccounts:    maxAccounts,
	}
}

// UpdateAccountRequest represents a request to update account display attributes.
type UpdateAccountRequest struct {
	Name         string `json:"name"`
	Color        string `json:"color"`
	DisplayOrder int    `json:"display_order"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		Name:         r.Name,
		Color:        r.Color,
		DisplayOrder: r.DisplayOrder,
	}
}

// HoldingItem represents one asset inside an investment partition.
type HoldingItem struct {
	AssetType  string          `json:"asset_type"`
	Ticker     string          `json:"ticker"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ToDomain converts to a domain holding.
func (h HoldingItem) ToDomain() domain.Holding {
	return domain.Holding{
		AssetType:  h.AssetType,
		Ticker:     h.Ticker,
		Name:       h.Name,
		Percentage: h.Percentage,
	}
}

// HoldingsToDomain converts a holdings list.
func HoldingsToDomain(items []HoldingItem) []domain.Holding {
	if items == nil {
		return nil
	}

	holdings := make([]domain.Holding, len(items))
	for i, h := range items {
		holdings[i] = h.ToDomain()
	}

	return holdings
}

// CreatePartitionRequest represents a request to create a partition.
type CreatePartitionRequest struct {
	Name   string          `json:"name"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`

	InterestRate      decimal.Decimal `json:"interest_rate,omitempty"`
	InterestFrequency string          `json:"interest_frequency,omitempty"`

	Holdings []HoldingItem `json:"holdings,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePartitionRequest) ToUseCaseInput() usecase.CreatePartitionInput {
	return usecase.CreatePartitionInput{
		Name:              r.Name,
		Kind:              domain.PartitionKind(r.Kind),
		Amount:            r.Amount,
		InterestRate:      r.InterestRate,
		InterestFrequency: domain.InterestFrequency(r.InterestFrequency),
		Holdings:          HoldingsToDomain(r.Holdings),
	}
}

// UpdateHoldingsRequest represents a request to replace a partition's holdings.
type UpdateHoldingsRequest struct {
	Holdings []HoldingItem `json:"holdings"`
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	AccountID         string          `json:"account_id"`
	ToAccountID       *string         `json:"to_account_id,omitempty"`
	PartitionID       *string         `json:"partition_id,omitempty"`
	ToPartitionID     *string         `json:"to_partition_id,omitempty"`
	Category          string          `json:"category,omitempty"`
	IncomeCategory    string          `json:"income_category,omitempty"`
	Description       string          `json:"description,omitempty"`
	Date              *time.Time      `json:"date,omitempty"`
	IsRecurring       bool            `json:"is_recurring,omitempty"`
	RecurringInterval string          `json:"recurring_interval,omitempty"`
	Scheduled         bool            `json:"scheduled,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(ownerID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		OwnerID:           ownerID,
		Type:              domain.TransactionType(r.Type),
		Amount:            r.Amount,
		AccountID:         r.AccountID,
		ToAccountID:       r.ToAccountID,
		PartitionID:       r.PartitionID,
		ToPartitionID:     r.ToPartitionID,
		Category:          r.Category,
		IncomeCategory:    r.IncomeCategory,
		Description:       r.Description,
		Date:              r.Date,
		IsRecurring:       r.IsRecurring,
		RecurringInterval: domain.RecurringInterval(r.RecurringInterval),
		Scheduled:         r.Scheduled,
	}
}

// TransferFundsRequest moves funds between an account and one of its partitions.
type TransferFundsRequest struct {
	AccountID   string          `json:"account_id"`
	PartitionID string          `json:"partition_id"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
}

// PartitionTransferRequest moves funds between two partitions of one account.
type PartitionTransferRequest struct {
	AccountID       string          `json:"account_id"`
	FromPartitionID string          `json:"from_partition_id"`
	ToPartitionID   string          `json:"to_partition_id"`
	Amount          decimal.Decimal `json:"amount"`
}
