package apikeys

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
)

type stubKeyRepo struct {
	keys    map[string]*models.APIKey // secret hash -> key
	byID    map[uuid.UUID]*models.APIKey
	err     error
	touched []uuid.UUID
}

func newStubKeyRepo() *stubKeyRepo {
	return &stubKeyRepo{
		keys: map[string]*models.APIKey{},
		byID: map[uuid.UUID]*models.APIKey{},
	}
}

func (r *stubKeyRepo) Create(ctx context.Context, key *models.APIKey) error {
	if r.err != nil {
		return r.err
	}
	key.ID = uuid.New()
	key.CreatedAt = time.Now()
	r.keys[key.SecretHash] = key
	r.byID[key.ID] = key
	return nil
}

func (r *stubKeyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error) {
	if r.err != nil {
		return nil, r.err
	}
	key, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return key, nil
}

func (r *stubKeyRepo) FindBySecretHash(ctx context.Context, hash string) (*models.APIKey, error) {
	if r.err != nil {
		return nil, r.err
	}
	key, ok := r.keys[hash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return key, nil
}

func (r *stubKeyRepo) FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.APIKey, error) {
	var keys []models.APIKey
	for _, key := range r.byID {
		if key.StoreID == storeID {
			keys = append(keys, *key)
		}
	}
	return keys, nil
}

func (r *stubKeyRepo) Update(ctx context.Context, key *models.APIKey) error {
	r.byID[key.ID] = key
	r.keys[key.SecretHash] = key
	return nil
}

func (r *stubKeyRepo) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	r.touched = append(r.touched, id)
	return nil
}

func TestServiceCreateIssuesSecretOnce(t *testing.T) {
	repo := newStubKeyRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	created, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateKeyInput{Label: "Register 1"})
	if err != nil {
		t.Fatalf("create key: %v", err)
	}
	if !strings.HasPrefix(created.Secret, "nvk_") {
		t.Fatalf("expected nvk_ secret prefix, got %q", created.Secret)
	}
	if created.Prefix != created.Secret[:len(created.Prefix)] {
		t.Fatal("expected stored prefix to match secret head")
	}
	if created.Status != enums.APIKeyStatusActive {
		t.Fatalf("expected active key, got %s", created.Status)
	}

	stored := repo.byID[created.ID]
	if stored.SecretHash == created.Secret {
		t.Fatal("expected secret stored hashed")
	}
	if stored.SecretHash != HashSecret(created.Secret) {
		t.Fatal("expected SHA-256 digest of the secret")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := NewService(newStubKeyRepo())

	if _, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateKeyInput{Label: " "}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank label, got %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if _, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateKeyInput{Label: "X", ExpiresAt: &past}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for past expiry, got %v", err)
	}
}

func TestServiceAuthenticate(t *testing.T) {
	repo := newStubKeyRepo()
	svc, _ := NewService(repo)
	storeID := uuid.New()

	created, err := svc.Create(context.Background(), storeID, uuid.New(), CreateKeyInput{Label: "Register 1"})
	if err != nil {
		t.Fatalf("create key: %v", err)
	}

	dto, err := svc.Authenticate(context.Background(), created.Secret)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if dto.StoreID != storeID {
		t.Fatalf("expected store %s, got %s", storeID, dto.StoreID)
	}
	if len(repo.touched) != 1 {
		t.Fatal("expected last-used touch")
	}

	if _, err := svc.Authenticate(context.Background(), "nvk_wrong"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown secret, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "garbage"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for malformed secret, got %v", err)
	}
}

func TestServiceAuthenticateRejectsExpiredAndInactive(t *testing.T) {
	repo := newStubKeyRepo()
	svc, _ := NewService(repo)
	storeID := uuid.New()

	created, _ := svc.Create(context.Background(), storeID, uuid.New(), CreateKeyInput{Label: "Register 1"})
	key := repo.byID[created.ID]

	expired := time.Now().Add(-time.Minute)
	key.ExpiresAt = &expired
	if _, err := svc.Authenticate(context.Background(), created.Secret); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for expired key, got %v", err)
	}

	key.ExpiresAt = nil
	key.Status = enums.APIKeyStatusSuspended
	if _, err := svc.Authenticate(context.Background(), created.Secret); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for suspended key, got %v", err)
	}
}

func TestServiceRotateRevokesOldAndIssuesNew(t *testing.T) {
	repo := newStubKeyRepo()
	svc, _ := NewService(repo)
	storeID := uuid.New()
	actorID := uuid.New()

	created, _ := svc.Create(context.Background(), storeID, actorID, CreateKeyInput{Label: "Register 1"})

	rotated, err := svc.Rotate(context.Background(), storeID, created.ID, actorID)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotated.ID == created.ID {
		t.Fatal("expected a new key row")
	}
	if rotated.Label != created.Label {
		t.Fatalf("expected label carried over, got %q", rotated.Label)
	}
	if rotated.Secret == created.Secret {
		t.Fatal("expected a fresh secret")
	}

	old := repo.byID[created.ID]
	if old.Status != enums.APIKeyStatusRevoked || old.RevokedAt == nil {
		t.Fatal("expected old key revoked")
	}

	if _, err := svc.Authenticate(context.Background(), created.Secret); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected old secret rejected after rotation, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), rotated.Secret); err != nil {
		t.Fatalf("expected new secret accepted, got %v", err)
	}
}

func TestServiceSuspendResumeRevoke(t *testing.T) {
	repo := newStubKeyRepo()
	svc, _ := NewService(repo)
	storeID := uuid.New()

	created, _ := svc.Create(context.Background(), storeID, uuid.New(), CreateKeyInput{Label: "Register 1"})

	if err := svc.Suspend(context.Background(), storeID, created.ID); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if repo.byID[created.ID].Status != enums.APIKeyStatusSuspended {
		t.Fatal("expected suspended key")
	}
	if err := svc.Resume(context.Background(), storeID, created.ID); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if repo.byID[created.ID].Status != enums.APIKeyStatusActive {
		t.Fatal("expected active key")
	}
	if err := svc.Revoke(context.Background(), storeID, created.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	// revocation is final
	if err := svc.Resume(context.Background(), storeID, created.ID); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict resuming revoked key, got %v", err)
	}
	if _, err := svc.Rotate(context.Background(), storeID, created.ID, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict rotating revoked key, got %v", err)
	}
	// revoking twice is a no-op
	if err := svc.Revoke(context.Background(), storeID, created.ID); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestServiceScopesKeysToStore(t *testing.T) {
	repo := newStubKeyRepo()
	svc, _ := NewService(repo)
	storeID := uuid.New()

	created, _ := svc.Create(context.Background(), storeID, uuid.New(), CreateKeyInput{Label: "Register 1"})

	if err := svc.Revoke(context.Background(), uuid.New(), created.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for foreign store, got %v", err)
	}
}
