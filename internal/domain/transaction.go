package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of ledger event kinds. Only income and
// expense change an account's total funds; every other type redistributes
// funds between the account and its partitions or another account.
type TransactionType string

const (
	TypeIncome            TransactionType = "income"
	TypeExpense           TransactionType = "expense"
	TypeTransfer          TransactionType = "transfer"
	TypePartitionIn       TransactionType = "partition_in"
	TypePartitionOut      TransactionType = "partition_out"
	TypePartitionTransfer TransactionType = "partition_transfer"
)

// TransactionStatus tracks whether the balance mutation has been applied.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusScheduled TransactionStatus = "scheduled"
)

// RecurringInterval is the cadence of a recurring transaction template.
type RecurringInterval string

const (
	IntervalDaily   RecurringInterval = "daily"
	IntervalWeekly  RecurringInterval = "weekly"
	IntervalMonthly RecurringInterval = "monthly"
	IntervalYearly  RecurringInterval = "yearly"
)

// ValidInterval reports whether i is a known interval.
func (i RecurringInterval) ValidInterval() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// NextOccurrence advances a due date by one interval.
func NextOccurrence(from time.Time, interval RecurringInterval) time.Time {
	switch interval {
	case IntervalDaily:
		return from.AddDate(0, 0, 1)
	case IntervalWeekly:
		return from.AddDate(0, 0, 7)
	case IntervalMonthly:
		return from.AddDate(0, 1, 0)
	default:
		return from.AddDate(1, 0, 0)
	}
}

// Transaction is an immutable record of one ledger event. AccountID always
// names the main account; partition endpoints live in PartitionID and
// ToPartitionID, and ToAccountID is set only for account-to-account
// transfers. A completed transaction's mutation has already been applied;
// a scheduled one has not.
type Transaction struct {
	ID                string
	OwnerID           string
	Type              TransactionType
	Amount            decimal.Decimal
	AccountID         string
	ToAccountID       *string
	PartitionID       *string
	ToPartitionID     *string
	Category          string
	IncomeCategory    string
	Description       string
	Date              time.Time
	IsRecurring       bool
	RecurringInterval RecurringInterval
	NextDueDate       *time.Time
	Status            TransactionStatus
	CreatedAt         time.Time
}

// Validate performs the pure field checks; endpoint resolution and balance
// sufficiency are checked by the ledger engine against locked records.
func (t *Transaction) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if t.AccountID == "" {
		return ErrAccountNotFound
	}

	switch t.Type {
	case TypeIncome:
		if t.IncomeCategory == "" {
			return ErrMissingIncomeCat
		}
	case TypeExpense:
		if t.Category == "" {
			return ErrMissingCategory
		}
	case TypeTransfer:
		if t.ToAccountID == nil || *t.ToAccountID == "" {
			return ErrMissingToAccount
		}
		if *t.ToAccountID == t.AccountID {
			return ErrSameAccount
		}
	case TypePartitionIn, TypePartitionOut:
		if t.PartitionID == nil || *t.PartitionID == "" {
			return ErrMissingPartition
		}
	case TypePartitionTransfer:
		if t.PartitionID == nil || *t.PartitionID == "" ||
			t.ToPartitionID == nil || *t.ToPartitionID == "" {
			return ErrMissingPartition
		}
		if *t.PartitionID == *t.ToPartitionID {
			return ErrSamePartition
		}
	default:
		return ErrInvalidType
	}

	if t.IsRecurring && !t.RecurringInterval.ValidInterval() {
		return ErrInvalidInterval
	}

	return nil
}
