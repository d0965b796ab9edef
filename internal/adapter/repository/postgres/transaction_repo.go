package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/usecase"
)

const transactionColumns = `id, owner_id, type, amount, account_id, to_account_id, partition_id,
	to_partition_id, category, income_category, description, date, is_recurring,
	recurring_interval, next_due_date, status, created_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create records a transaction inside a database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	var interval pgtype.Text
	if txn.RecurringInterval != "" {
		interval = pgtype.Text{String: string(txn.RecurringInterval), Valid: true}
	}

	_, err := inTx(tx).Exec(ctx, `
		INSERT INTO transactions (id, owner_id, type, amount, account_id, to_account_id, partition_id,
			to_partition_id, category, income_category, description, date, is_recurring,
			recurring_interval, next_due_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		txn.ID,
		txn.OwnerID,
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		txn.AccountID,
		strPtrToPgText(txn.ToAccountID),
		strPtrToPgText(txn.PartitionID),
		strPtrToPgText(txn.ToPartitionID),
		txn.Category,
		txn.IncomeCategory,
		txn.Description,
		timeToPgTimestamptz(txn.Date),
		txn.IsRecurring,
		interval,
		timePtrToPgTimestamptz(txn.NextDueDate),
		string(txn.Status),
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	row := inTx(tx).QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
	return scanTransaction(row)
}

// Delete removes a transaction record inside a database transaction.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	_, err := inTx(tx).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return err
}

// List retrieves an owner's transactions, newest first.
func (r *TransactionRepository) List(ctx context.Context, ownerID string, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(` AND (account_id = $%d OR to_account_id = $%d)`, len(args), len(args))
	}

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListDue lists recurring templates whose next occurrence is due.
func (r *TransactionRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE is_recurring AND next_due_date IS NOT NULL AND next_due_date <= $1
		ORDER BY next_due_date LIMIT $2`,
		timeToPgTimestamptz(now), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// AdvanceNextDue moves a recurring template's due date forward only if the
// stored date still equals due.
func (r *TransactionRepository) AdvanceNextDue(ctx context.Context, tx usecase.Transaction, id string, due, next time.Time) (bool, error) {
	tag, err := inTx(tx).Exec(ctx,
		`UPDATE transactions SET next_due_date = $3 WHERE id = $1 AND next_due_date = $2`,
		id, timeToPgTimestamptz(due), timeToPgTimestamptz(next))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// CompleteScheduled flips a scheduled transaction to completed.
func (r *TransactionRepository) CompleteScheduled(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) (bool, error) {
	tag, err := inTx(tx).Exec(ctx,
		`UPDATE transactions SET status = 'completed', date = $2 WHERE id = $1 AND status = 'scheduled'`,
		id, timeToPgTimestamptz(completedAt))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// ExistsForAccount reports whether any transaction references the account.
func (r *TransactionRepository) ExistsForAccount(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE account_id = $1 OR to_account_id = $1)`,
		accountID).Scan(&exists)

	return exists, err
}

// SumFlows aggregates the completed flows touching one account. Partition
// movements are internal and excluded on purpose.
func (r *TransactionRepository) SumFlows(ctx context.Context, accountID string) (*usecase.AccountFlows, error) {
	var income, expense, transfersIn, transfersOut pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income' AND account_id = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND account_id = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'transfer' AND to_account_id = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'transfer' AND account_id = $1), 0)
		FROM transactions
		WHERE status = 'completed' AND (account_id = $1 OR to_account_id = $1)`,
		accountID).Scan(&income, &expense, &transfersIn, &transfersOut)
	if err != nil {
		return nil, err
	}

	return &usecase.AccountFlows{
		Income:       numericToDecimal(income),
		Expense:      numericToDecimal(expense),
		TransfersIn:  numericToDecimal(transfersIn),
		TransfersOut: numericToDecimal(transfersOut),
	}, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn           domain.Transaction
		txnType       string
		amount        pgtype.Numeric
		toAccountID   pgtype.Text
		partitionID   pgtype.Text
		toPartitionID pgtype.Text
		date          pgtype.Timestamptz
		interval      pgtype.Text
		nextDueDate   pgtype.Timestamptz
		status        string
		createdAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.OwnerID,
		&txnType,
		&amount,
		&txn.AccountID,
		&toAccountID,
		&partitionID,
		&toPartitionID,
		&txn.Category,
		&txn.IncomeCategory,
		&txn.Description,
		&date,
		&txn.IsRecurring,
		&interval,
		&nextDueDate,
		&status,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Type = domain.TransactionType(txnType)
	txn.Amount = numericToDecimal(amount)
	txn.ToAccountID = pgTextToStrPtr(toAccountID)
	txn.PartitionID = pgTextToStrPtr(partitionID)
	txn.ToPartitionID = pgTextToStrPtr(toPartitionID)
	txn.Date = date.Time
	txn.RecurringInterval = domain.RecurringInterval(interval.String)
	txn.NextDueDate = pgTimestamptzToTimePtr(nextDueDate)
	txn.Status = domain.TransactionStatus(status)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
