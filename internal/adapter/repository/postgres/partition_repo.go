package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/usecase"
)

const partitionColumns = `id, account_id, name, kind, balance, interest_rate, interest_frequency,
	next_interest_date, total_interest_earned, holdings, created_at, updated_at`

// PartitionRepository implements usecase.PartitionRepository.
type PartitionRepository struct {
	pool *pgxpool.Pool
}

// NewPartitionRepository creates a new PartitionRepository.
func NewPartitionRepository(pool *pgxpool.Pool) *PartitionRepository {
	return &PartitionRepository{pool: pool}
}

// Create creates a new partition inside a transaction.
func (r *PartitionRepository) Create(ctx context.Context, tx usecase.Transaction, partition *domain.Partition) error {
	holdings, err := marshalHoldings(partition.Holdings)
	if err != nil {
		return err
	}

	_, err = inTx(tx).Exec(ctx, `
		INSERT INTO partitions (id, account_id, name, kind, balance, interest_rate, interest_frequency,
			next_interest_date, total_interest_earned, holdings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		partition.ID,
		partition.AccountID,
		partition.Name,
		string(partition.Kind),
		decimalToNumeric(partition.Balance),
		decimalToNumeric(partition.InterestRate),
		string(partition.InterestFrequency),
		timePtrToPgTimestamptz(partition.NextInterestDate),
		decimalToNumeric(partition.TotalInterestEarned),
		holdings,
		timeToPgTimestamptz(partition.CreatedAt),
		timeToPgTimestamptz(partition.UpdatedAt),
	)

	return err
}

// GetByID retrieves a partition by ID.
func (r *PartitionRepository) GetByID(ctx context.Context, id string) (*domain.Partition, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+partitionColumns+` FROM partitions WHERE id = $1`, id)
	return scanPartition(row)
}

// GetByIDForUpdate retrieves a partition by ID with a FOR UPDATE lock.
func (r *PartitionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Partition, error) {
	row := inTx(tx).QueryRow(ctx, `SELECT `+partitionColumns+` FROM partitions WHERE id = $1 FOR UPDATE`, id)
	return scanPartition(row)
}

// GetByIDsForUpdate retrieves multiple partitions with FOR UPDATE locks,
// ordered by ID so concurrent invocations lock in the same order.
func (r *PartitionRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Partition, error) {
	rows, err := inTx(tx).Query(ctx,
		`SELECT `+partitionColumns+` FROM partitions WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partitions []*domain.Partition
	for rows.Next() {
		partition, err := scanPartition(rows)
		if err != nil {
			return nil, err
		}

		partitions = append(partitions, partition)
	}

	return partitions, rows.Err()
}

// UpdateBalance updates the balance of a partition.
func (r *PartitionRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	_, err := inTx(tx).Exec(ctx,
		`UPDATE partitions SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// UpdateHoldings replaces the holdings of an investment partition.
func (r *PartitionRepository) UpdateHoldings(ctx context.Context, id string, holdings []domain.Holding, updatedAt time.Time) error {
	encoded, err := marshalHoldings(holdings)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE partitions SET holdings = $2, updated_at = $3 WHERE id = $1`,
		id, encoded, timeToPgTimestamptz(updatedAt))

	return err
}

// AdvanceInterest moves the accrual schedule forward only if the stored
// next date still equals due.
func (r *PartitionRepository) AdvanceInterest(ctx context.Context, tx usecase.Transaction, id string, due, next time.Time, totalEarned decimal.Decimal, updatedAt time.Time) (bool, error) {
	tag, err := inTx(tx).Exec(ctx, `
		UPDATE partitions
		SET next_interest_date = $3, total_interest_earned = $4, updated_at = $5
		WHERE id = $1 AND next_interest_date = $2`,
		id,
		timeToPgTimestamptz(due),
		timeToPgTimestamptz(next),
		decimalToNumeric(totalEarned),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// ListByAccount lists the partitions of one account.
func (r *PartitionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Partition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+partitionColumns+` FROM partitions WHERE account_id = $1 ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partitions []*domain.Partition
	for rows.Next() {
		partition, err := scanPartition(rows)
		if err != nil {
			return nil, err
		}

		partitions = append(partitions, partition)
	}

	return partitions, rows.Err()
}

// ListInterestDue lists savings partitions whose accrual date is due.
func (r *PartitionRepository) ListInterestDue(ctx context.Context, now time.Time, limit int) ([]*domain.Partition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+partitionColumns+` FROM partitions
		WHERE kind = 'savings' AND next_interest_date IS NOT NULL AND next_interest_date <= $1
		ORDER BY next_interest_date LIMIT $2`,
		timeToPgTimestamptz(now), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partitions []*domain.Partition
	for rows.Next() {
		partition, err := scanPartition(rows)
		if err != nil {
			return nil, err
		}

		partitions = append(partitions, partition)
	}

	return partitions, rows.Err()
}

// CountByAccount counts the partitions of one account.
func (r *PartitionRepository) CountByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int, error) {
	var count int
	err := inTx(tx).QueryRow(ctx,
		`SELECT COUNT(*) FROM partitions WHERE account_id = $1`, accountID).Scan(&count)

	return count, err
}

// SumByAccount sums the partition balances of one account.
func (r *PartitionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM partitions WHERE account_id = $1`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// Delete removes a partition inside a transaction.
func (r *PartitionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	_, err := inTx(tx).Exec(ctx, `DELETE FROM partitions WHERE id = $1`, id)
	return err
}

func marshalHoldings(holdings []domain.Holding) ([]byte, error) {
	if holdings == nil {
		return nil, nil
	}
	return json.Marshal(holdings)
}

func scanPartition(row pgx.Row) (*domain.Partition, error) {
	var (
		partition         domain.Partition
		kind              string
		balance           pgtype.Numeric
		interestRate      pgtype.Numeric
		interestFrequency pgtype.Text
		nextInterestDate  pgtype.Timestamptz
		totalInterest     pgtype.Numeric
		holdings          []byte
		createdAt         pgtype.Timestamptz
		updatedAt         pgtype.Timestamptz
	)

	err := row.Scan(
		&partition.ID,
		&partition.AccountID,
		&partition.Name,
		&kind,
		&balance,
		&interestRate,
		&interestFrequency,
		&nextInterestDate,
		&totalInterest,
		&holdings,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartitionNotFound
		}

		return nil, err
	}

	partition.Kind = domain.PartitionKind(kind)
	partition.Balance = numericToDecimal(balance)
	partition.InterestRate = numericToDecimal(interestRate)
	partition.InterestFrequency = domain.InterestFrequency(interestFrequency.String)
	partition.NextInterestDate = pgTimestamptzToTimePtr(nextInterestDate)
	partition.TotalInterestEarned = numericToDecimal(totalInterest)
	partition.CreatedAt = createdAt.Time
	partition.UpdatedAt = updatedAt.Time

	if len(holdings) > 0 {
		if err := json.Unmarshal(holdings, &partition.Holdings); err != nil {
			return nil, err
		}
	}

	return &partition, nil
}
