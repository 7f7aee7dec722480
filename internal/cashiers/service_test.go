package cashiers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/security"
)

type stubCashierRepo struct {
	cashier *models.Cashier
	list    []models.Cashier
	err     error
	taken   bool
	touched []uuid.UUID
	updated *models.Cashier
}

func (r *stubCashierRepo) Create(ctx context.Context, cashier *models.Cashier) error {
	if r.err != nil {
		return r.err
	}
	cashier.ID = uuid.New()
	r.cashier = cashier
	return nil
}

func (r *stubCashierRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.cashier, nil
}

func (r *stubCashierRepo) FindByStoreAndCode(ctx context.Context, storeID uuid.UUID, code string) (*models.Cashier, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.cashier == nil || r.cashier.CashierCode != code {
		return nil, gorm.ErrRecordNotFound
	}
	return r.cashier, nil
}

func (r *stubCashierRepo) FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.Cashier, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.list, nil
}

func (r *stubCashierRepo) Update(ctx context.Context, cashier *models.Cashier) error {
	r.updated = cashier
	return nil
}

func (r *stubCashierRepo) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	r.touched = append(r.touched, id)
	return nil
}

func (r *stubCashierRepo) CodeInUse(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	return r.taken, nil
}

func testPinConfig() config.PinConfig {
	return config.PinConfig{MinLength: 4, MaxLength: 6, BcryptCost: 4}
}

func seededCashier(t *testing.T, storeID uuid.UUID, pin string) *models.Cashier {
	t.Helper()
	hash, err := security.HashPin(pin, testPinConfig())
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	return &models.Cashier{
		ID:          uuid.New(),
		StoreID:     storeID,
		DisplayName: "Sam",
		CashierCode: "101",
		PinHash:     hash,
		Status:      enums.CashierStatusActive,
	}
}

func TestServiceCreateCashier(t *testing.T) {
	repo := &stubCashierRepo{}
	svc, err := NewService(repo, testPinConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), uuid.New(), CreateCashierInput{
		DisplayName: "Sam",
		CashierCode: "101",
		Pin:         "4321",
	})
	if err != nil {
		t.Fatalf("create cashier: %v", err)
	}
	if dto.Status != enums.CashierStatusActive {
		t.Fatalf("expected active status, got %s", dto.Status)
	}
	if repo.cashier.PinHash == "" || repo.cashier.PinHash == "4321" {
		t.Fatal("expected pin stored hashed")
	}
}

func TestServiceCreateCashierRejectsBadPin(t *testing.T) {
	svc, _ := NewService(&stubCashierRepo{}, testPinConfig())

	for _, pin := range []string{"", "12", "1234567", "12ab"} {
		_, err := svc.Create(context.Background(), uuid.New(), CreateCashierInput{
			DisplayName: "Sam", CashierCode: "101", Pin: pin,
		})
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("pin %q: expected validation error, got %v", pin, err)
		}
	}
}

func TestServiceCreateCashierDuplicateCodeConflicts(t *testing.T) {
	svc, _ := NewService(&stubCashierRepo{taken: true}, testPinConfig())

	_, err := svc.Create(context.Background(), uuid.New(), CreateCashierInput{
		DisplayName: "Sam", CashierCode: "101", Pin: "4321",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceCreateCashierRaceOnUniqueConstraint(t *testing.T) {
	repo := &stubCashierRepo{err: errors.New(`pq: duplicate key value violates unique constraint "cashiers_store_id_cashier_code_key"`)}
	svc, _ := NewService(repo, testPinConfig())

	_, err := svc.Create(context.Background(), uuid.New(), CreateCashierInput{
		DisplayName: "Sam", CashierCode: "101", Pin: "4321",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceVerifyPINSuccess(t *testing.T) {
	storeID := uuid.New()
	cashier := seededCashier(t, storeID, "4321")
	repo := &stubCashierRepo{cashier: cashier}
	svc, _ := NewService(repo, testPinConfig())

	dto, err := svc.VerifyPIN(context.Background(), storeID, "101", "4321")
	if err != nil {
		t.Fatalf("verify pin: %v", err)
	}
	if dto.ID != cashier.ID {
		t.Fatalf("expected cashier %s, got %s", cashier.ID, dto.ID)
	}
	if len(repo.touched) != 1 {
		t.Fatal("expected last login touched")
	}
}

func TestServiceVerifyPINFailuresLookAlike(t *testing.T) {
	storeID := uuid.New()
	cashier := seededCashier(t, storeID, "4321")

	cases := map[string]struct {
		repo *stubCashierRepo
		code string
		pin  string
	}{
		"unknown code": {repo: &stubCashierRepo{cashier: cashier}, code: "999", pin: "4321"},
		"wrong pin":    {repo: &stubCashierRepo{cashier: cashier}, code: "101", pin: "0000"},
	}

	for name, tc := range cases {
		svc, _ := NewService(tc.repo, testPinConfig())
		_, err := svc.VerifyPIN(context.Background(), storeID, tc.code, tc.pin)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("%s: expected unauthorized, got %v", name, err)
		}
		if pkgerrors.As(err).Message() != "invalid cashier credentials" {
			t.Fatalf("%s: expected uniform message, got %q", name, pkgerrors.As(err).Message())
		}
		if len(tc.repo.touched) != 0 {
			t.Fatalf("%s: expected no last-login touch on failure", name)
		}
	}
}

func TestServiceVerifyPINRejectsNonLoginStatuses(t *testing.T) {
	storeID := uuid.New()
	for _, status := range []enums.CashierStatus{enums.CashierStatusSuspended, enums.CashierStatusTerminated} {
		cashier := seededCashier(t, storeID, "4321")
		cashier.Status = status
		svc, _ := NewService(&stubCashierRepo{cashier: cashier}, testPinConfig())

		_, err := svc.VerifyPIN(context.Background(), storeID, "101", "4321")
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("status %s: expected unauthorized, got %v", status, err)
		}
	}
}

func TestServiceSetStatusMachine(t *testing.T) {
	storeID := uuid.New()
	cashier := seededCashier(t, storeID, "4321")
	repo := &stubCashierRepo{cashier: cashier}
	svc, _ := NewService(repo, testPinConfig())

	dto, err := svc.SetStatus(context.Background(), storeID, cashier.ID, enums.CashierStatusSuspended)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if dto.Status != enums.CashierStatusSuspended {
		t.Fatalf("expected suspended, got %s", dto.Status)
	}

	dto, err = svc.SetStatus(context.Background(), storeID, cashier.ID, enums.CashierStatusActive)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if dto.Status != enums.CashierStatusActive {
		t.Fatalf("expected active, got %s", dto.Status)
	}

	dto, err = svc.SetStatus(context.Background(), storeID, cashier.ID, enums.CashierStatusTerminated)
	if err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if cashier.TerminatedAt == nil {
		t.Fatal("expected terminated_at stamped")
	}

	// terminal state
	_, err = svc.SetStatus(context.Background(), storeID, cashier.ID, enums.CashierStatusActive)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict reactivating terminated cashier, got %v", err)
	}
}

func TestServiceUpdateRotatesPin(t *testing.T) {
	storeID := uuid.New()
	cashier := seededCashier(t, storeID, "4321")
	oldHash := cashier.PinHash
	repo := &stubCashierRepo{cashier: cashier}
	svc, _ := NewService(repo, testPinConfig())

	newPin := "9876"
	if _, err := svc.Update(context.Background(), storeID, cashier.ID, UpdateCashierInput{Pin: &newPin}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if cashier.PinHash == oldHash {
		t.Fatal("expected pin hash rotated")
	}
	if !security.VerifyPin(newPin, cashier.PinHash) {
		t.Fatal("expected new pin to verify")
	}
}
