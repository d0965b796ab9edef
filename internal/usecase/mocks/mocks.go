package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	SetHasPartitionsFunc  func(ctx context.Context, tx usecase.Transaction, id string, has bool, updatedAt time.Time) error
	UpdateDetailsFunc     func(ctx context.Context, id, name, color string, displayOrder int, updatedAt time.Time) error
	SetArchivedFunc       func(ctx context.Context, id string, archived bool, updatedAt time.Time) error
	DeleteFunc            func(ctx context.Context, id string) error
	ListFunc              func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	CountActiveFunc       func(ctx context.Context, ownerID string) (int, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed inserts an account directly into the backing map.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.CurrentBalance = balance
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) SetHasPartitions(ctx context.Context, tx usecase.Transaction, id string, has bool, updatedAt time.Time) error {
	if m.SetHasPartitionsFunc != nil {
		return m.SetHasPartitionsFunc(ctx, tx, id, has, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.HasPartitions = has
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateDetails(ctx context.Context, id, name, color string, displayOrder int, updatedAt time.Time) error {
	if m.UpdateDetailsFunc != nil {
		return m.UpdateDetailsFunc(ctx, id, name, color, displayOrder, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Name = name
		acc.Color = color
		acc.DisplayOrder = displayOrder
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) SetArchived(ctx context.Context, id string, archived bool, updatedAt time.Time) error {
	if m.SetArchivedFunc != nil {
		return m.SetArchivedFunc(ctx, id, archived, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Archived = archived
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.OwnerID == ownerID {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *MockAccountRepository) CountActive(ctx context.Context, ownerID string) (int, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, acc := range m.accounts {
		if acc.OwnerID == ownerID && !acc.Archived {
			count++
		}
	}
	return count, nil
}

// MockPartitionRepository is a mock implementation of PartitionRepository.
type MockPartitionRepository struct {
	mu         sync.RWMutex
	partitions map[string]*domain.Partition

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, partition *domain.Partition) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Partition, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Partition, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Partition, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateHoldingsFunc    func(ctx context.Context, id string, holdings []domain.Holding, updatedAt time.Time) error
	AdvanceInterestFunc   func(ctx context.Context, tx usecase.Transaction, id string, due, next time.Time, totalEarned decimal.Decimal, updatedAt time.Time) (bool, error)
	ListByAccountFunc     func(ctx context.Context, accountID string) ([]*domain.Partition, error)
	ListInterestDueFunc   func(ctx context.Context, now time.Time, limit int) ([]*domain.Partition, error)
	CountByAccountFunc    func(ctx context.Context, tx usecase.Transaction, accountID string) (int, error)
	SumByAccountFunc      func(ctx context.Context, accountID string) (decimal.Decimal, error)
	DeleteFunc            func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockPartitionRepository() *MockPartitionRepository {
	return &MockPartitionRepository{partitions: make(map[string]*domain.Partition)}
}

// Seed inserts a partition directly into the backing map.
func (m *MockPartitionRepository) Seed(partition *domain.Partition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partitions[partition.ID] = partition
}

func (m *MockPartitionRepository) Create(ctx context.Context, tx usecase.Transaction, partition *domain.Partition) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, partition)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partitions[partition.ID] = partition
	return nil
}

func (m *MockPartitionRepository) GetByID(ctx context.Context, id string) (*domain.Partition, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.partitions[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPartitionNotFound
}

func (m *MockPartitionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Partition, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockPartitionRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Partition, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var partitions []*domain.Partition
	for _, id := range ids {
		if p, ok := m.partitions[id]; ok {
			partitions = append(partitions, p)
		}
	}
	return partitions, nil
}

func (m *MockPartitionRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.partitions[id]; ok {
		p.Balance = balance
		p.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockPartitionRepository) UpdateHoldings(ctx context.Context, id string, holdings []domain.Holding, updatedAt time.Time) error {
	if m.UpdateHoldingsFunc != nil {
		return m.UpdateHoldingsFunc(ctx, id, holdings, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.partitions[id]; ok {
		p.Holdings = holdings
		p.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockPartitionRepository) AdvanceInterest(ctx context.Context, tx usecase.Transaction, id string, due, next time.Time, totalEarned decimal.Decimal, updatedAt time.Time) (bool, error) {
	if m.AdvanceInterestFunc != nil {
		return m.AdvanceInterestFunc(ctx, tx, id, due, next, totalEarned, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partitions[id]
	if !ok || p.NextInterestDate == nil || !p.NextInterestDate.Equal(due) {
		return false, nil
	}
	p.NextInterestDate = &next
	p.TotalInterestEarned = totalEarned
	p.UpdatedAt = updatedAt
	return true, nil
}

func (m *MockPartitionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Partition, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var partitions []*domain.Partition
	for _, p := range m.partitions {
		if p.AccountID == accountID {
			partitions = append(partitions, p)
		}
	}
	sort.Slice(partitions, func(i, j int) bool { return partitions[i].ID < partitions[j].ID })
	return partitions, nil
}

func (m *MockPartitionRepository) ListInterestDue(ctx context.Context, now time.Time, limit int) ([]*domain.Partition, error) {
	if m.ListInterestDueFunc != nil {
		return m.ListInterestDueFunc(ctx, now, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []*domain.Partition
	for _, p := range m.partitions {
		if p.Kind == domain.PartitionKindSavings && p.NextInterestDate != nil && !p.NextInterestDate.After(now) {
			due = append(due, p)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

func (m *MockPartitionRepository) CountByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int, error) {
	if m.CountByAccountFunc != nil {
		return m.CountByAccountFunc(ctx, tx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, p := range m.partitions {
		if p.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *MockPartitionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, p := range m.partitions {
		if p.AccountID == accountID {
			sum = sum.Add(p.Balance)
		}
	}
	return sum, nil
}

func (m *MockPartitionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.partitions, id)
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	DeleteFunc            func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc              func(ctx context.Context, ownerID string, filter usecase.TransactionFilter) ([]*domain.Transaction, error)
	ListDueFunc           func(ctx context.Context, now time.Time, limit int) ([]*domain.Transaction, error)
	AdvanceNextDueFunc    func(ctx context.Context, tx usecase.Transaction, id string, due, next time.Time) (bool, error)
	CompleteScheduledFunc func(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) (bool, error)
	ExistsForAccountFunc  func(ctx context.Context, accountID string) (bool, error)
	SumFlowsFunc          func(ctx context.Context, accountID string) (*usecase.AccountFlows, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{transactions: make(map[string]*domain.Transaction)}
}

// Seed inserts a transaction directly into the backing map.
func (m *MockTransactionRepository) Seed(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
}

// Count returns the number of stored transactions.
func (m *MockTransactionRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, ownerID string, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.OwnerID != ownerID {
			continue
		}
		if filter.AccountID != "" && txn.AccountID != filter.AccountID {
			continue
		}
		if filter.Type != "" && txn.Type != filter.Type {
			continue
		}
		txns = append(txns, txn)
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].ID < txns[j].ID })
	return txns, nil
}

func (m *MockTransactionRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Transaction, error) {
	if m.ListDueFunc != nil {
		return m.ListDueFunc(ctx, now, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.IsRecurring && txn.NextDueDate != nil && !txn.NextDueDate.After(now) {
			due = append(due, txn)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

func (m *MockTransactionRepository) AdvanceNextDue(ctx context.Context, tx usecase.Transaction, id string, due, next time.Time) (bool, error) {
	if m.AdvanceNextDueFunc != nil {
		return m.AdvanceNextDueFunc(ctx, tx, id, due, next)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok || txn.NextDueDate == nil || !txn.NextDueDate.Equal(due) {
		return false, nil
	}
	txn.NextDueDate = &next
	return true, nil
}

func (m *MockTransactionRepository) CompleteScheduled(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) (bool, error) {
	if m.CompleteScheduledFunc != nil {
		return m.CompleteScheduledFunc(ctx, tx, id, completedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok || txn.Status != domain.StatusScheduled {
		return false, nil
	}
	txn.Status = domain.StatusCompleted
	return true, nil
}

func (m *MockTransactionRepository) ExistsForAccount(ctx context.Context, accountID string) (bool, error) {
	if m.ExistsForAccountFunc != nil {
		return m.ExistsForAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.transactions {
		if txn.AccountID == accountID {
			return true, nil
		}
		if txn.ToAccountID != nil && *txn.ToAccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTransactionRepository) SumFlows(ctx context.Context, accountID string) (*usecase.AccountFlows, error) {
	if m.SumFlowsFunc != nil {
		return m.SumFlowsFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	flows := &usecase.AccountFlows{
		Income:       decimal.Zero,
		Expense:      decimal.Zero,
		TransfersIn:  decimal.Zero,
		TransfersOut: decimal.Zero,
	}
	for _, txn := range m.transactions {
		if txn.Status != domain.StatusCompleted {
			continue
		}
		switch {
		case txn.Type == domain.TypeIncome && txn.AccountID == accountID:
			flows.Income = flows.Income.Add(txn.Amount)
		case txn.Type == domain.TypeExpense && txn.AccountID == accountID:
			flows.Expense = flows.Expense.Add(txn.Amount)
		case txn.Type == domain.TypeTransfer && txn.AccountID == accountID:
			flows.TransfersOut = flows.TransfersOut.Add(txn.Amount)
		case txn.Type == domain.TypeTransfer && txn.ToAccountID != nil && *txn.ToAccountID == accountID:
			flows.TransfersIn = flows.TransfersIn.Add(txn.Amount)
		}
	}
	return flows, nil
}

// MockTransaction is a mock database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.RolledBack = true
	return nil
}

// MockTransactionManager is a mock TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock IDGenerator producing sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockSweepLock is an in-memory SweepLock.
type MockSweepLock struct {
	mu   sync.Mutex
	held map[string]bool

	AcquireFunc func(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseFunc func(ctx context.Context, name string) error
}

func NewMockSweepLock() *MockSweepLock {
	return &MockSweepLock{held: make(map[string]bool)}
}

func (m *MockSweepLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, name, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[name] {
		return false, nil
	}
	m.held[name] = true
	return true, nil
}

func (m *MockSweepLock) Release(ctx context.Context, name string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, name)
	return nil
}

// MockCache is an in-memory Cache. TTLs are ignored.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
