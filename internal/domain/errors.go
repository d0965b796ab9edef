package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountArchived      = errors.New("account is archived")
	ErrAccountHasPartitions = errors.New("account still has partitions")
	ErrLimitExceeded        = errors.New("account limit for plan exceeded")

	// Partition errors
	ErrPartitionNotFound  = errors.New("partition not found")
	ErrPartitionMismatch  = errors.New("partition does not belong to account")
	ErrHoldingsPercentage = errors.New("holdings percentages exceed 100")
	ErrNotInvestmentKind  = errors.New("partition is not an investment partition")
	ErrMissingPartition   = errors.New("transaction type requires a partition endpoint")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrSamePartition       = errors.New("cannot transfer to same partition")
	ErrMissingToAccount    = errors.New("transfer requires a destination account")
	ErrMissingCategory     = errors.New("expense requires a category")
	ErrMissingIncomeCat    = errors.New("income requires an income category")
	ErrInvalidType         = errors.New("unknown transaction type")
	ErrInvalidDirection    = errors.New("invalid transfer direction")
	ErrCurrencyMismatch    = errors.New("cannot transfer between different currencies")

	// Scheduling errors
	ErrAlreadyExecuted = errors.New("occurrence already executed")
	ErrNotRecurring    = errors.New("transaction is not recurring")
	ErrInvalidInterval = errors.New("invalid recurring interval")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification, retries exhausted")
)
