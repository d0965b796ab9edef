package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	HasPartitions  bool            `json:"has_partitions"`
	Archived       bool            `json:"archived"`
	Color          string          `json:"color,omitempty"`
	DisplayOrder   int             `json:"display_order"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		Currency:       a.Currency,
		CurrentBalance: a.CurrentBalance,
		InitialBalance: a.InitialBalance,
		HasPartitions:  a.HasPartitions,
		Archived:       a.Archived,
		Color:          a.Color,
		DisplayOrder:   a.DisplayOrder,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// PartitionResponse represents a partition in API responses.
type PartitionResponse struct {
	ID                  string          `json:"id"`
	AccountID           string          `json:"account_id"`
	Name                string          `json:"name"`
	Kind                string          `json:"kind"`
	Balance             decimal.Decimal `json:"balance"`
	InterestRate        decimal.Decimal `json:"interest_rate,omitempty"`
	InterestFrequency   string          `json:"interest_frequency,omitempty"`
	NextInterestDate    *time.Time      `json:"next_interest_date,omitempty"`
	TotalInterestEarned decimal.Decimal `json:"total_interest_earned"`
	Holdings            []HoldingItem   `json:"holdings,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// PartitionFromDomain converts a domain partition to a response.
func PartitionFromDomain(p *domain.Partition) *PartitionResponse {
	resp := &PartitionResponse{
		ID:                  p.ID,
		AccountID:           p.AccountID,
		Name:                p.Name,
		Kind:                string(p.Kind),
		Balance:             p.Balance,
		InterestRate:        p.InterestRate,
		InterestFrequency:   string(p.InterestFrequency),
		NextInterestDate:    p.NextInterestDate,
		TotalInterestEarned: p.TotalInterestEarned,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}

	if p.Holdings != nil {
		resp.Holdings = make([]HoldingItem, len(p.Holdings))
		for i, h := range p.Holdings {
			resp.Holdings[i] = HoldingItem{
				AssetType:  h.AssetType,
				Ticker:     h.Ticker,
				Name:       h.Name,
				Percentage: h.Percentage,
			}
		}
	}

	return resp
}

// PartitionsFromDomain converts domain partitions to responses.
func PartitionsFromDomain(partitions []*domain.Partition) []*PartitionResponse {
	result := make([]*PartitionResponse, len(partitions))
	for i, p := range partitions {
		result[i] = PartitionFromDomain(p)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	AccountID         string          `json:"account_id"`
	ToAccountID       *string         `json:"to_account_id,omitempty"`
	PartitionID       *string         `json:"partition_id,omitempty"`
	ToPartitionID     *string         `json:"to_partition_id,omitempty"`
	Category          string          `json:"category,omitempty"`
	IncomeCategory    string          `json:"income_category,omitempty"`
	Description       string          `json:"description,omitempty"`
	Date              time.Time       `json:"date"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringInterval string          `json:"recurring_interval,omitempty"`
	NextDueDate       *time.Time      `json:"next_due_date,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.ID,
		Type:              string(t.Type),
		Amount:            t.Amount,
		AccountID:         t.AccountID,
		ToAccountID:       t.ToAccountID,
		PartitionID:       t.PartitionID,
		ToPartitionID:     t.ToPartitionID,
		Category:          t.Category,
		IncomeCategory:    t.IncomeCategory,
		Description:       t.Description,
		Date:              t.Date,
		IsRecurring:       t.IsRecurring,
		RecurringInterval: string(t.RecurringInterval),
		NextDueDate:       t.NextDueDate,
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// SweepResponse summarizes one scheduler sweep.
type SweepResponse struct {
	Scanned  int  `json:"scanned"`
	Executed int  `json:"executed"`
	Failed   int  `json:"failed"`
	Skipped  bool `json:"skipped"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
