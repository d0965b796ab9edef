package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/finbucket/fundledger/internal/adapter/http/dto"
	"github.com/finbucket/fundledger/internal/adapter/http/middleware"
	"github.com/finbucket/fundledger/internal/domain"
	"github.com/finbucket/fundledger/internal/usecase"
)

type accountServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn     func(ctx context.Context, ownerID, id string) (*domain.Account, error)
	listFn    func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	updateFn  func(ctx context.Context, ownerID, id string, input usecase.UpdateAccountInput) (*domain.Account, error)
	archiveFn func(ctx context.Context, ownerID, id string) error
	deleteFn  func(ctx context.Context, ownerID, id string) error
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	return s.listFn(ctx, ownerID, limit, offset)
}

func (s *accountServiceStub) UpdateAccount(ctx context.Context, ownerID, id string, input usecase.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, ownerID, id, input)
}

func (s *accountServiceStub) ArchiveAccount(ctx context.Context, ownerID, id string) error {
	return s.archiveFn(ctx, ownerID, id)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, ownerID, id string) error {
	return s.deleteFn(ctx, ownerID, id)
}

func newAccountStub() *accountServiceStub {
	return &accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, nil
		},
		getFn: func(ctx context.Context, ownerID, id string) (*domain.Account, error) { return nil, nil },
		listFn: func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
			return nil, nil
		},
		updateFn: func(ctx context.Context, ownerID, id string, input usecase.UpdateAccountInput) (*domain.Account, error) {
			return nil, nil
		},
		archiveFn: func(ctx context.Context, ownerID, id string) error { return nil },
		deleteFn:  func(ctx context.Context, ownerID, id string) error { return nil },
	}
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:       "acc-1",
		Name:     "Checking",
		Currency: "USD",
	}

	var captured usecase.CreateAccountInput
	stub := newAccountStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
		captured = input
		return account, nil
	}
	handler := NewAccountHandler(stub)

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Name:           "Checking",
		Currency:       "USD",
		InitialBalance: decimal.NewFromInt(1000),
	})

	req := withOwner(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)), "owner-1")
	req = req.WithContext(context.WithValue(req.Context(), middleware.PlanLimitContextKey, 5))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.OwnerID != "owner-1" || captured.Name != "Checking" || captured.MaxAccounts != 5 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Fatalf("expected account ID acc-1, got %s", resp.ID)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	stub := newAccountStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
		t.Fatal("CreateAccount should not be called for invalid payload")
		return nil, nil
	}
	handler := NewAccountHandler(stub)

	req := withOwner(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json")), "owner-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_MissingOwner(t *testing.T) {
	handler := NewAccountHandler(newAccountStub())

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_PlanLimit(t *testing.T) {
	stub := newAccountStub()
	stub.createFn = func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
		return nil, domain.ErrLimitExceeded
	}
	handler := NewAccountHandler(stub)

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "Checking", Currency: "USD"})
	req := withOwner(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)), "owner-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	stub := newAccountStub()
	stub.getFn = func(ctx context.Context, ownerID, id string) (*domain.Account, error) {
		if ownerID != "owner-1" || id != "acc-1" {
			t.Fatalf("expected owner-1/acc-1, got %s/%s", ownerID, id)
		}
		return &domain.Account{ID: "acc-1", Name: "Checking"}, nil
	}
	handler := NewAccountHandler(stub)

	req := withOwner(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), "owner-1")
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	stub := newAccountStub()
	stub.getFn = func(ctx context.Context, ownerID, id string) (*domain.Account, error) {
		return nil, domain.ErrAccountNotFound
	}
	handler := NewAccountHandler(stub)

	req := withOwner(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), "owner-1")
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	stub := newAccountStub()
	stub.listFn = func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
		if limit != 5 || offset != 2 {
			t.Fatalf("expected limit=5 offset=2, got %d/%d", limit, offset)
		}
		return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
	}
	handler := NewAccountHandler(stub)

	req := withOwner(httptest.NewRequest(http.MethodGet, "/accounts?limit=5&offset=2", nil), "owner-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp.Accounts))
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := newAccountStub()
		handler := NewAccountHandler(stub)

		req := withOwner(httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil), "owner-1")
		req = setChiURLParam(req, "id", "acc-1")
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("partitions still attached", func(t *testing.T) {
		stub := newAccountStub()
		stub.deleteFn = func(ctx context.Context, ownerID, id string) error {
			return domain.ErrAccountHasPartitions
		}
		handler := NewAccountHandler(stub)

		req := withOwner(httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil), "owner-1")
		req = setChiURLParam(req, "id", "acc-1")
		rec := httptest.NewRecorder()

		handler.Delete(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_Archive_ServiceError(t *testing.T) {
	stub := newAccountStub()
	stub.archiveFn = func(ctx context.Context, ownerID, id string) error {
		return errors.New("db error")
	}
	handler := NewAccountHandler(stub)

	req := withOwner(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/archive", nil), "owner-1")
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Archive(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
