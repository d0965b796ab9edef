package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/usecase"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func inTx(tx usecase.Transaction) dbtx {
	return tx.(*Tx).PgxTx()
}

const accountColumns = `id, owner_id, name, type, currency, current_balance, initial_balance,
	has_partitions, archived, color, display_order, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, owner_id, name, type, currency, current_balance, initial_balance,
			has_partitions, archived, color, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		account.ID,
		account.OwnerID,
		account.Name,
		string(account.Type),
		account.Currency,
		decimalToNumeric(account.CurrentBalance),
		decimalToNumeric(account.InitialBalance),
		account.HasPartitions,
		account.Archived,
		account.Color,
		account.DisplayOrder,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row := inTx(tx).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
	return scanAccount(row)
}

// GetByIDsForUpdate retrieves multiple accounts with FOR UPDATE locks,
// ordered by ID so concurrent invocations lock in the same order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := inTx(tx).Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the current balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	_, err := inTx(tx).Exec(ctx,
		`UPDATE accounts SET current_balance = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// SetHasPartitions updates the has_partitions flag.
func (r *AccountRepository) SetHasPartitions(ctx context.Context, tx usecase.Transaction, id string, has bool, updatedAt time.Time) error {
	_, err := inTx(tx).Exec(ctx,
		`UPDATE accounts SET has_partitions = $2, updated_at = $3 WHERE id = $1`,
		id, has, timeToPgTimestamptz(updatedAt))

	return err
}

// UpdateDetails updates display attributes.
func (r *AccountRepository) UpdateDetails(ctx context.Context, id, name, color string, displayOrder int, updatedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE accounts SET name = $2, color = $3, display_order = $4, updated_at = $5 WHERE id = $1`,
		id, name, color, displayOrder, timeToPgTimestamptz(updatedAt))

	return err
}

// SetArchived updates the archived flag.
func (r *AccountRepository) SetArchived(ctx context.Context, id string, archived bool, updatedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE accounts SET archived = $2, updated_at = $3 WHERE id = $1`,
		id, archived, timeToPgTimestamptz(updatedAt))

	return err
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}

// List lists an owner's accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts
		WHERE owner_id = $1 ORDER BY display_order, id LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// CountActive counts an owner's non-archived accounts.
func (r *AccountRepository) CountActive(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM accounts WHERE owner_id = $1 AND NOT archived`, ownerID).Scan(&count)

	return count, err
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account        domain.Account
		accountType    string
		currentBalance pgtype.Numeric
		initialBalance pgtype.Numeric
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.Name,
		&accountType,
		&account.Currency,
		&currentBalance,
		&initialBalance,
		&account.HasPartitions,
		&account.Archived,
		&account.Color,
		&account.DisplayOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Type = domain.AccountType(accountType)
	account.CurrentBalance = numericToDecimal(currentBalance)
	account.InitialBalance = numericToDecimal(initialBalance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}
