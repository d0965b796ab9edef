package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a user-owned fund container.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeWallet     AccountType = "wallet"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeOther      AccountType = "other"
)

// ValidType reports whether t is one of the known account types.
func (t AccountType) ValidType() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeInvestment,
		AccountTypeWallet, AccountTypeCreditCard, AccountTypeOther:
		return true
	}
	return false
}

// Account represents a top-level user-owned pool of funds. CurrentBalance
// excludes money held inside partitions; the two together are the account's
// total funds.
type Account struct {
	ID             string
	OwnerID        string
	Name           string
	Type           AccountType
	Currency       string
	CurrentBalance decimal.Decimal
	InitialBalance decimal.Decimal
	HasPartitions  bool
	Archived       bool
	Color          string
	DisplayOrder   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateDebit checks that debiting amount keeps the balance non-negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.CurrentBalance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.CurrentBalance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.CurrentBalance.Add(amount)
}
