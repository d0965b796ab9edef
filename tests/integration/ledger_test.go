package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/finbucket/fundledger/internal/adapter/http"
	"github.com/finbucket/fundledger/internal/adapter/http/dto"
	"github.com/finbucket/fundledger/internal/adapter/http/handler"
	"github.com/finbucket/fundledger/internal/adapter/http/middleware"
	"github.com/finbucket/fundledger/internal/adapter/repository/postgres"
	redisrepo "github.com/finbucket/fundledger/internal/adapter/repository/redis"
	infraredis "github.com/finbucket/fundledger/internal/infrastructure/redis"
	"github.com/finbucket/fundledger/internal/usecase"
	"github.com/finbucket/fundledger/tests/testutil"
)

// newFullRouter wires the whole stack against the test database and a
// real redis instance, the way cmd/server does.
func newFullRouter(t *testing.T, ctx context.Context, testDB *testutil.TestDB) http.Handler {
	t.Helper()

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	retrier := postgres.NewRetrier(zerolog.Nop(), nil)
	accountRepo := postgres.NewAccountRepository(pool)
	partitionRepo := postgres.NewPartitionRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	idGen := postgres.NewULIDGenerator()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)
	cache := redisrepo.NewCache(redisClient)
	sweepLock := redisrepo.NewSweepLock(redisClient)

	ledgerUC := usecase.NewLedgerUseCase(txManager, retrier, accountRepo, partitionRepo, txnRepo, idGen, nil)
	accountUC := usecase.NewAccountUseCase(accountRepo, partitionRepo, txnRepo, idGen, nil)
	partitionUC := usecase.NewPartitionUseCase(txManager, retrier, accountRepo, partitionRepo, idGen, nil)
	schedulerUC := usecase.NewSchedulerUseCase(ledgerUC, txManager, retrier, accountRepo, partitionRepo, txnRepo, idGen, sweepLock, zerolog.Nop(), nil)
	conservationUC := usecase.NewConservationUseCase(accountRepo, partitionRepo, txnRepo, cache, nil)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		PartitionHandler:   handler.NewPartitionHandler(partitionUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC),
		SchedulerHandler:   handler.NewSchedulerHandler(schedulerUC),
		LedgerHandler:      handler.NewLedgerHandler(conservationUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   idempotencyStore,
		Logger:             zerolog.Nop(),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, owner string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, body)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set(middleware.OwnerIDHeader, owner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	return w
}

func TestLedgerFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	testDB.TruncateAll(ctx)

	router := newFullRouter(t, ctx, testDB)
	accountRepo := postgres.NewAccountRepository(testDB.Pool)
	partitionRepo := postgres.NewPartitionRepository(testDB.Pool)

	t.Run("partition funds and check conservation", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		owner := "owner-" + testutil.GenerateID()
		account := testDB.CreateTestAccount(ctx, owner, "Main", "USD", decimal.NewFromInt(1000))

		// Carve out a savings partition.
		w := doJSON(t, router, http.MethodPost, "/api/v1/accounts/"+account.ID+"/partitions/", owner, dto.CreatePartitionRequest{
			Name:              "Emergency Fund",
			Kind:              "savings",
			Amount:            decimal.NewFromInt(300),
			InterestRate:      decimal.RequireFromString("0.05"),
			InterestFrequency: "monthly",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("partition create failed: %d %s", w.Code, w.Body.String())
		}

		var partition dto.PartitionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &partition); err != nil {
			t.Fatalf("failed to parse partition: %v", err)
		}

		// Move another 100 into it.
		w = doJSON(t, router, http.MethodPost, "/api/v1/transfers/partition", owner, dto.TransferFundsRequest{
			AccountID:   account.ID,
			PartitionID: partition.ID,
			Amount:      decimal.NewFromInt(100),
			Direction:   "toPartition",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("transfer failed: %d %s", w.Code, w.Body.String())
		}

		// Record income and an expense.
		w = doJSON(t, router, http.MethodPost, "/api/v1/transactions/", owner, dto.CreateTransactionRequest{
			Type:           "income",
			Amount:         decimal.NewFromInt(200),
			AccountID:      account.ID,
			IncomeCategory: "salary",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("income failed: %d %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodPost, "/api/v1/transactions/", owner, dto.CreateTransactionRequest{
			Type:      "expense",
			Amount:    decimal.NewFromInt(50),
			AccountID: account.ID,
			Category:  "groceries",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expense failed: %d %s", w.Code, w.Body.String())
		}

		got, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("failed to load account: %v", err)
		}
		if !got.CurrentBalance.Equal(decimal.NewFromInt(750)) {
			t.Errorf("expected account balance 750, got %s", got.CurrentBalance)
		}

		gotPartition, err := partitionRepo.GetByID(ctx, partition.ID)
		if err != nil {
			t.Fatalf("failed to load partition: %v", err)
		}
		if !gotPartition.Balance.Equal(decimal.NewFromInt(400)) {
			t.Errorf("expected partition balance 400, got %s", gotPartition.Balance)
		}

		w = doJSON(t, router, http.MethodGet, "/api/v1/ledger/conservation", owner, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("conservation check failed: %d %s", w.Code, w.Body.String())
		}

		var report usecase.ConservationReport
		if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
			t.Fatalf("failed to parse report: %v", err)
		}

		if !report.Consistent {
			t.Errorf("expected conservation to hold: %s", w.Body.String())
		}
		if report.TotalAccounts != 1 {
			t.Errorf("expected 1 account in report, got %d", report.TotalAccounts)
		}
	})

	t.Run("deleting a transaction reverses it", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		owner := "owner-" + testutil.GenerateID()
		account := testDB.CreateTestAccount(ctx, owner, "Main", "USD", decimal.NewFromInt(500))

		w := doJSON(t, router, http.MethodPost, "/api/v1/transactions/", owner, dto.CreateTransactionRequest{
			Type:      "expense",
			Amount:    decimal.NewFromInt(80),
			AccountID: account.ID,
			Category:  "travel",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expense failed: %d %s", w.Code, w.Body.String())
		}

		var txn dto.TransactionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &txn); err != nil {
			t.Fatalf("failed to parse transaction: %v", err)
		}

		w = doJSON(t, router, http.MethodDelete, "/api/v1/transactions/"+txn.ID, owner, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("delete failed: %d %s", w.Code, w.Body.String())
		}

		got, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("failed to load account: %v", err)
		}
		if !got.CurrentBalance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected balance restored to 500, got %s", got.CurrentBalance)
		}

		w = doJSON(t, router, http.MethodGet, "/api/v1/transactions/"+txn.ID, owner, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected reversed transaction to be gone, got %d", w.Code)
		}
	})

	t.Run("idempotent transaction posts once", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		owner := "owner-" + testutil.GenerateID()
		account := testDB.CreateTestAccount(ctx, owner, "Main", "USD", decimal.NewFromInt(100))

		req := dto.CreateTransactionRequest{
			Type:           "income",
			Amount:         decimal.NewFromInt(40),
			AccountID:      account.ID,
			IncomeCategory: "refund",
		}
		body, _ := json.Marshal(req)

		key := "test-key-" + testutil.GenerateID()

		send := func() *httptest.ResponseRecorder {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", bytes.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
			r.Header.Set(middleware.OwnerIDHeader, owner)
			r.Header.Set(middleware.IdempotencyKeyHeader, key)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)
			return w
		}

		w1 := send()
		if w1.Code != http.StatusCreated {
			t.Fatalf("first request failed: %d %s", w1.Code, w1.Body.String())
		}

		w2 := send()
		if w2.Code != http.StatusOK && w2.Code != http.StatusCreated {
			t.Fatalf("second request failed: %d %s", w2.Code, w2.Body.String())
		}

		var resp1, resp2 dto.TransactionResponse
		json.Unmarshal(w1.Body.Bytes(), &resp1)
		json.Unmarshal(w2.Body.Bytes(), &resp2)

		if resp1.ID != resp2.ID {
			t.Errorf("expected same transaction ID, got %s vs %s", resp1.ID, resp2.ID)
		}

		got, err := accountRepo.GetByID(ctx, account.ID)
		if err != nil {
			t.Fatalf("failed to load account: %v", err)
		}
		if !got.CurrentBalance.Equal(decimal.NewFromInt(140)) {
			t.Errorf("expected balance 140 (credited once), got %s", got.CurrentBalance)
		}
	})
}
