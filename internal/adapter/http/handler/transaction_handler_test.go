package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/adapter/http/dto"
	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/usecase"
	"github.com/finbucket/fundledger/internal/usecase/mocks"
)

// The transaction handler takes the concrete ledger use case, so these
// tests run it over the in-memory repository mocks.
func newTransactionHandler(seed func(accounts *mocks.MockAccountRepository, partitions *mocks.MockPartitionRepository)) (*TransactionHandler, *mocks.MockAccountRepository, *mocks.MockPartitionRepository) {
	accountRepo := mocks.NewMockAccountRepository()
	partitionRepo := mocks.NewMockPartitionRepository()

	ledger := usecase.NewLedgerUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockRetrier(),
		accountRepo,
		partitionRepo,
		mocks.NewMockTransactionRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)

	if seed != nil {
		seed(accountRepo, partitionRepo)
	}

	return NewTransactionHandler(ledger), accountRepo, partitionRepo
}

func TestTransactionHandler_Create_Success(t *testing.T) {
	handler, accountRepo, _ := newTransactionHandler(func(accounts *mocks.MockAccountRepository, _ *mocks.MockPartitionRepository) {
		accounts.Seed(&domain.Account{ID: "acc-1", OwnerID: "owner-1", Currency: "USD", CurrentBalance: decimal.NewFromInt(100)})
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Type:           "income",
		Amount:         decimal.NewFromInt(250),
		AccountID:      "acc-1",
		IncomeCategory: "salary",
	})

	req := withOwner(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Type != "income" {
		t.Fatalf("expected income, got %s", resp.Type)
	}

	acc, _ := accountRepo.GetByID(context.Background(), "acc-1")
	if !acc.CurrentBalance.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected balance 350, got %s", acc.CurrentBalance)
	}
}

func TestTransactionHandler_Create_InsufficientFunds(t *testing.T) {
	handler, _, _ := newTransactionHandler(func(accounts *mocks.MockAccountRepository, _ *mocks.MockPartitionRepository) {
		accounts.Seed(&domain.Account{ID: "acc-1", OwnerID: "owner-1", Currency: "USD", CurrentBalance: decimal.NewFromInt(40)})
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Type:      "expense",
		Amount:    decimal.NewFromInt(50),
		AccountID: "acc-1",
		Category:  "groceries",
	})

	req := withOwner(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransactionHandler_Create_ValidationError(t *testing.T) {
	handler, _, _ := newTransactionHandler(nil)

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Type:      "expense",
		Amount:    decimal.NewFromInt(50),
		AccountID: "acc-1",
		// Missing category.
	})

	req := withOwner(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_TransferFunds(t *testing.T) {
	handler, accountRepo, partitionRepo := newTransactionHandler(func(accounts *mocks.MockAccountRepository, partitions *mocks.MockPartitionRepository) {
		accounts.Seed(&domain.Account{ID: "acc-1", OwnerID: "owner-1", Currency: "USD", CurrentBalance: decimal.NewFromInt(700)})
		partitions.Seed(&domain.Partition{ID: "part-1", AccountID: "acc-1", Kind: domain.PartitionKindSavings, Balance: decimal.NewFromInt(300)})
	})

	body, _ := json.Marshal(dto.TransferFundsRequest{
		AccountID:   "acc-1",
		PartitionID: "part-1",
		Amount:      decimal.NewFromInt(100),
		Direction:   "toPartition",
	})

	req := withOwner(httptest.NewRequest(http.MethodPost, "/transfers/partition", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	handler.TransferFunds(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	acc, _ := accountRepo.GetByID(context.Background(), "acc-1")
	part, _ := partitionRepo.GetByID(context.Background(), "part-1")
	if !acc.CurrentBalance.Equal(decimal.NewFromInt(600)) || !part.Balance.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected 600/400, got %s/%s", acc.CurrentBalance, part.Balance)
	}
}

func TestTransactionHandler_TransferFunds_BadDirection(t *testing.T) {
	handler, _, _ := newTransactionHandler(func(accounts *mocks.MockAccountRepository, partitions *mocks.MockPartitionRepository) {
		accounts.Seed(&domain.Account{ID: "acc-1", OwnerID: "owner-1", Currency: "USD", CurrentBalance: decimal.NewFromInt(700)})
		partitions.Seed(&domain.Partition{ID: "part-1", AccountID: "acc-1", Kind: domain.PartitionKindSavings, Balance: decimal.NewFromInt(300)})
	})

	body, _ := json.Marshal(dto.TransferFundsRequest{
		AccountID:   "acc-1",
		PartitionID: "part-1",
		Amount:      decimal.NewFromInt(100),
		Direction:   "sideways",
	})

	req := withOwner(httptest.NewRequest(http.MethodPost, "/transfers/partition", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	handler.TransferFunds(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Delete_ReversesAndRemoves(t *testing.T) {
	handler, accountRepo, _ := newTransactionHandler(func(accounts *mocks.MockAccountRepository, _ *mocks.MockPartitionRepository) {
		accounts.Seed(&domain.Account{ID: "acc-1", OwnerID: "owner-1", Currency: "USD", CurrentBalance: decimal.NewFromInt(100)})
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Type: "expense", Amount: decimal.NewFromInt(30), AccountID: "acc-1", Category: "fees",
	})
	req := withOwner(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", rec.Code)
	}

	var created dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	req = withOwner(httptest.NewRequest(http.MethodDelete, "/transactions/"+created.ID, nil), "owner-1")
	req = setChiURLParam(req, "id", created.ID)
	rec = httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	acc, _ := accountRepo.GetByID(context.Background(), "acc-1")
	if !acc.CurrentBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance restored to 100, got %s", acc.CurrentBalance)
	}
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	handler, _, _ := newTransactionHandler(nil)

	req := withOwner(httptest.NewRequest(http.MethodGet, "/transactions/txn-404", nil), "owner-1")
	req = setChiURLParam(req, "id", "txn-404")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
