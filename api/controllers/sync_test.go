package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shopspring/decimal"

	"github.com/djmax1976/nuvana-backoffice/api/middleware"
	"github.com/djmax1976/nuvana-backoffice/internal/apikeys"
	"github.com/djmax1976/nuvana-backoffice/internal/cashiers"
	syncsvc "github.com/djmax1976/nuvana-backoffice/internal/sync"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

type stubCashierService struct {
	verified *cashiers.CashierDTO
	err      error

	gotStoreID uuid.UUID
	gotCode    string
	gotPin     string
}

func (s *stubCashierService) Create(context.Context, uuid.UUID, cashiers.CreateCashierInput) (*cashiers.CashierDTO, error) {
	return nil, nil
}

func (s *stubCashierService) GetByID(context.Context, uuid.UUID, uuid.UUID) (*cashiers.CashierDTO, error) {
	return nil, nil
}

func (s *stubCashierService) List(context.Context, uuid.UUID) ([]cashiers.CashierDTO, error) {
	return nil, nil
}

func (s *stubCashierService) Update(context.Context, uuid.UUID, uuid.UUID, cashiers.UpdateCashierInput) (*cashiers.CashierDTO, error) {
	return nil, nil
}

func (s *stubCashierService) SetStatus(context.Context, uuid.UUID, uuid.UUID, enums.CashierStatus) (*cashiers.CashierDTO, error) {
	return nil, nil
}

func (s *stubCashierService) VerifyPIN(_ context.Context, storeID uuid.UUID, code, pin string) (*cashiers.CashierDTO, error) {
	s.gotStoreID = storeID
	s.gotCode = code
	s.gotPin = pin
	return s.verified, s.err
}

func decimalFromString(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

type stubSyncService struct {
	pull *syncsvc.PullResult
	push *syncsvc.PushResult
	err  error

	gotKey   *apikeys.APIKeyDTO
	gotBatch syncsvc.PushBatch
}

func (s *stubSyncService) Pull(_ context.Context, key *apikeys.APIKeyDTO) (*syncsvc.PullResult, error) {
	s.gotKey = key
	return s.pull, s.err
}

func (s *stubSyncService) Push(_ context.Context, key *apikeys.APIKeyDTO, batch syncsvc.PushBatch) (*syncsvc.PushResult, error) {
	s.gotKey = key
	s.gotBatch = batch
	return s.push, s.err
}

func terminalRequest(method, target string, body []byte, key *apikeys.APIKeyDTO) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewBuffer(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithAPIKey(req.Context(), key))
}

func TestSyncPullReturnsSnapshot(t *testing.T) {
	key := &apikeys.APIKeyDTO{ID: uuid.New(), StoreID: uuid.New(), Status: enums.APIKeyStatusActive}
	svc := &stubSyncService{pull: &syncsvc.PullResult{FullSnapshot: true, ServerTime: time.Now().UTC()}}
	handler := SyncPull(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, terminalRequest(http.MethodGet, "/api/terminal/v1/sync/pull", nil, key))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotKey == nil || svc.gotKey.ID != key.ID {
		t.Fatalf("expected key %s forwarded to service", key.ID)
	}

	var envelope struct {
		Data syncsvc.PullResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.FullSnapshot {
		t.Fatal("expected full snapshot flag")
	}
}

func TestSyncPushMapsWirePayload(t *testing.T) {
	key := &apikeys.APIKeyDTO{ID: uuid.New(), StoreID: uuid.New(), Status: enums.APIKeyStatusActive}
	svc := &stubSyncService{push: &syncsvc.PushResult{Accepted: 1, ServerTime: time.Now().UTC()}}
	handler := SyncPush(svc, nil)

	body := []byte(`{
		"transactions": [{
			"external_ref": "reg1-000451",
			"register_number": 1,
			"type": "sale",
			"subtotal": "10.00",
			"tax": "0.83",
			"total": "10.83",
			"occurred_at": "2026-08-30T14:05:00Z",
			"lines": [{"description": "Scratcher #9", "quantity": 1, "unit_price": "10.00", "line_total": "10.00"}]
		}]
	}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, terminalRequest(http.MethodPost, "/api/terminal/v1/sync/push", body, key))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.gotBatch.Transactions) != 1 {
		t.Fatalf("expected 1 record got %d", len(svc.gotBatch.Transactions))
	}

	record := svc.gotBatch.Transactions[0]
	if record.ExternalRef != "reg1-000451" {
		t.Fatalf("unexpected external ref %q", record.ExternalRef)
	}
	if record.Type != enums.TransactionTypeSale {
		t.Fatalf("unexpected type %q", record.Type)
	}
	if !record.Total.Equal(decimalFromString(t, "10.83")) {
		t.Fatalf("unexpected total %s", record.Total)
	}
	if len(record.Lines) != 1 || record.Lines[0].Quantity != 1 {
		t.Fatalf("unexpected lines %+v", record.Lines)
	}
}

func TestSyncPushRejectsMalformedBody(t *testing.T) {
	key := &apikeys.APIKeyDTO{ID: uuid.New(), StoreID: uuid.New()}
	handler := SyncPush(&stubSyncService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, terminalRequest(http.MethodPost, "/api/terminal/v1/sync/push", []byte(`{"transactions": "nope"}`), key))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSyncVerifyPINRequiresKey(t *testing.T) {
	handler := SyncVerifyPIN(&stubCashierService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/terminal/v1/sync/cashiers/verify-pin",
		bytes.NewBufferString(`{"cashier_code": "101", "pin": "4321"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestSyncVerifyPINDelegates(t *testing.T) {
	key := &apikeys.APIKeyDTO{ID: uuid.New(), StoreID: uuid.New()}
	svc := &stubCashierService{verified: &cashiers.CashierDTO{
		ID:          uuid.New(),
		StoreID:     key.StoreID,
		DisplayName: "Front Register",
		CashierCode: "101",
		Status:      enums.CashierStatusActive,
	}}
	handler := SyncVerifyPIN(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, terminalRequest(http.MethodPost, "/api/terminal/v1/sync/cashiers/verify-pin",
		[]byte(`{"cashier_code": "101", "pin": "4321"}`), key))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotStoreID != key.StoreID {
		t.Fatalf("expected store %s got %s", key.StoreID, svc.gotStoreID)
	}
}
