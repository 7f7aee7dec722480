package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/api/middleware"
	"github.com/djmax1976/nuvana-backoffice/internal/lotterybins"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
)

type stubLotteryService struct {
	status  *lotterybins.BinCountStatus
	result  *lotterybins.SyncResult
	preview *lotterybins.PreviewResult
	err     error

	gotStoreID uuid.UUID
	gotCount   int
	gotActorID uuid.UUID
	calls      int
}

func (s *stubLotteryService) GetBinCountStatus(_ context.Context, storeID uuid.UUID) (*lotterybins.BinCountStatus, error) {
	s.gotStoreID = storeID
	return s.status, s.err
}

func (s *stubLotteryService) UpdateBinCount(_ context.Context, storeID uuid.UUID, desiredCount int, actorID uuid.UUID) (*lotterybins.SyncResult, error) {
	s.gotStoreID = storeID
	s.gotCount = desiredCount
	s.gotActorID = actorID
	s.calls++
	return s.result, s.err
}

func (s *stubLotteryService) ValidateBinCountChange(_ context.Context, storeID uuid.UUID, proposedCount int) (*lotterybins.PreviewResult, error) {
	s.gotStoreID = storeID
	s.gotCount = proposedCount
	s.calls++
	return s.preview, s.err
}

func withStoreParam(req *http.Request, storeID uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("storeId", storeID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestBinCountStatusSuccess(t *testing.T) {
	storeID := uuid.New()
	count := 12
	svc := &stubLotteryService{status: &lotterybins.BinCountStatus{
		StoreID:       storeID,
		BinCount:      &count,
		ActiveBins:    12,
		BinsWithPacks: 4,
		EmptyBins:     8,
	}}
	handler := BinCountStatus(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count", nil)
	req = withStoreParam(req, storeID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotStoreID != storeID {
		t.Fatalf("expected store %s got %s", storeID, svc.gotStoreID)
	}

	var envelope struct {
		Data lotterybins.BinCountStatus `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ActiveBins != 12 || envelope.Data.EmptyBins != 8 {
		t.Fatalf("unexpected status payload: %+v", envelope.Data)
	}
}

func TestBinCountStatusInvalidStoreID(t *testing.T) {
	handler := BinCountStatus(&stubLotteryService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/not-a-uuid/lottery/bins/count", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("storeId", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestBinCountUpdateSuccess(t *testing.T) {
	storeID := uuid.New()
	actorID := uuid.New()
	previous := 10
	svc := &stubLotteryService{result: &lotterybins.SyncResult{
		PreviousCount:      &previous,
		NewCount:           14,
		BinsCreated:        4,
		BinsWithPacksCount: 6,
	}}
	handler := BinCountUpdate(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count",
		bytes.NewBufferString(`{"bin_count": 14}`))
	req = withStoreParam(req, storeID)
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotCount != 14 {
		t.Fatalf("expected desired count 14 got %d", svc.gotCount)
	}
	if svc.gotActorID != actorID {
		t.Fatalf("expected actor %s got %s", actorID, svc.gotActorID)
	}

	var envelope struct {
		Data lotterybins.SyncResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.NewCount != 14 || envelope.Data.BinsCreated != 4 {
		t.Fatalf("unexpected result payload: %+v", envelope.Data)
	}
}

func TestBinCountUpdateMissingActor(t *testing.T) {
	storeID := uuid.New()
	handler := BinCountUpdate(&stubLotteryService{}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count",
		bytes.NewBufferString(`{"bin_count": 14}`))
	req = withStoreParam(req, storeID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestBinCountUpdateBlockedByPacks(t *testing.T) {
	storeID := uuid.New()
	actorID := uuid.New()
	svc := &stubLotteryService{err: pkgerrors.New(pkgerrors.CodeConflict, "bins still hold packs").
		WithDetails(map[string]any{"bins_with_packs": []int{9, 10}})}
	handler := BinCountUpdate(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count",
		bytes.NewBufferString(`{"bin_count": 8}`))
	req = withStoreParam(req, storeID)
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := envelope.Error.Details["bins_with_packs"]; !ok {
		t.Fatalf("expected blocking bins in details, got %+v", envelope.Error.Details)
	}
}

func TestBinCountValidatePreview(t *testing.T) {
	storeID := uuid.New()
	svc := &stubLotteryService{preview: &lotterybins.PreviewResult{
		Allowed:      true,
		CurrentCount: 10,
		BinsToAdd:    2,
		Message:      "2 bins will be added",
	}}
	handler := BinCountValidate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count/validate",
		bytes.NewBufferString(`{"bin_count": 12}`))
	req = withStoreParam(req, storeID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotCount != 12 {
		t.Fatalf("expected proposed count 12 got %d", svc.gotCount)
	}

	var envelope struct {
		Data lotterybins.PreviewResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Allowed || envelope.Data.BinsToAdd != 2 {
		t.Fatalf("unexpected preview payload: %+v", envelope.Data)
	}
}

func TestBinCountUpdateAcceptsZero(t *testing.T) {
	storeID := uuid.New()
	actorID := uuid.New()
	previous := 6
	svc := &stubLotteryService{result: &lotterybins.SyncResult{
		PreviousCount:   &previous,
		NewCount:        0,
		BinsDeactivated: 6,
	}}
	handler := BinCountUpdate(svc, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count",
		bytes.NewBufferString(`{"bin_count": 0}`))
	req = withStoreParam(req, storeID)
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected service call, got %d", svc.calls)
	}
	if svc.gotCount != 0 {
		t.Fatalf("expected desired count 0 got %d", svc.gotCount)
	}
}

func TestBinCountValidateAcceptsZero(t *testing.T) {
	storeID := uuid.New()
	svc := &stubLotteryService{preview: &lotterybins.PreviewResult{
		Allowed:      true,
		CurrentCount: 6,
		BinsToRemove: 6,
		Message:      "6 bins will be removed",
	}}
	handler := BinCountValidate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count/validate",
		bytes.NewBufferString(`{"bin_count": 0}`))
	req = withStoreParam(req, storeID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected service call, got %d", svc.calls)
	}
	if svc.gotCount != 0 {
		t.Fatalf("expected proposed count 0 got %d", svc.gotCount)
	}
}

func TestBinCountValidateRejectsMissingField(t *testing.T) {
	storeID := uuid.New()
	svc := &stubLotteryService{}
	handler := BinCountValidate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count/validate",
		bytes.NewBufferString(`{}`))
	req = withStoreParam(req, storeID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no service call, got %d", svc.calls)
	}
}

func TestBinCountValidateRejectsBadBody(t *testing.T) {
	storeID := uuid.New()
	handler := BinCountValidate(&stubLotteryService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stores/"+storeID.String()+"/lottery/bins/count/validate",
		bytes.NewBufferString(`{"bin_count": "twelve"}`))
	req = withStoreParam(req, storeID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
