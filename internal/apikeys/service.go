package apikeys

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
)

const (
	secretPrefix = "nvk_"
	secretBytes  = 32
	prefixLen    = 12
)

type keyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error)
	FindBySecretHash(ctx context.Context, hash string) (*models.APIKey, error)
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.APIKey, error)
	Update(ctx context.Context, key *models.APIKey) error
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
}

// Service manages terminal sync credentials.
type Service interface {
	Create(ctx context.Context, storeID, actorID uuid.UUID, input CreateKeyInput) (*CreatedKeyDTO, error)
	List(ctx context.Context, storeID uuid.UUID) ([]APIKeyDTO, error)
	Rotate(ctx context.Context, storeID, keyID, actorID uuid.UUID) (*CreatedKeyDTO, error)
	Revoke(ctx context.Context, storeID, keyID uuid.UUID) error
	Suspend(ctx context.Context, storeID, keyID uuid.UUID) error
	Resume(ctx context.Context, storeID, keyID uuid.UUID) error
	Authenticate(ctx context.Context, secret string) (*APIKeyDTO, error)
}

type service struct {
	repo keyRepository
}

// NewService builds an API key service.
func NewService(repo keyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("api key repository required")
	}
	return &service{repo: repo}, nil
}

// CreateKeyInput captures creation-time credential data.
type CreateKeyInput struct {
	Label     string
	ExpiresAt *time.Time
}

// HashSecret digests a plaintext secret the way the table stores it.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func generateSecret() (string, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return secretPrefix + hex.EncodeToString(raw), nil
}

func (s *service) Create(ctx context.Context, storeID, actorID uuid.UUID, input CreateKeyInput) (*CreatedKeyDTO, error) {
	if storeID == uuid.Nil || actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier")
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry must be in the future")
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate secret")
	}

	key := &models.APIKey{
		StoreID:    storeID,
		Label:      label,
		Prefix:     secret[:prefixLen],
		SecretHash: HashSecret(secret),
		Status:     enums.APIKeyStatusActive,
		ExpiresAt:  input.ExpiresAt,
		CreatedBy:  actorID,
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create api key")
	}
	return &CreatedKeyDTO{APIKeyDTO: *FromModel(key), Secret: secret}, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID) ([]APIKeyDTO, error) {
	keys, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list api keys")
	}
	dtos := make([]APIKeyDTO, 0, len(keys))
	for i := range keys {
		dtos = append(dtos, *FromModel(&keys[i]))
	}
	return dtos, nil
}

// Rotate revokes the old credential and issues a fresh secret carrying the
// same label and store binding.
func (s *service) Rotate(ctx context.Context, storeID, keyID, actorID uuid.UUID) (*CreatedKeyDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid actor id")
	}
	old, err := s.load(ctx, storeID, keyID)
	if err != nil {
		return nil, err
	}
	if old.Status == enums.APIKeyStatusRevoked {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "api key is revoked")
	}

	if err := s.markRevoked(ctx, old); err != nil {
		return nil, err
	}
	return s.Create(ctx, storeID, actorID, CreateKeyInput{Label: old.Label, ExpiresAt: old.ExpiresAt})
}

func (s *service) Revoke(ctx context.Context, storeID, keyID uuid.UUID) error {
	key, err := s.load(ctx, storeID, keyID)
	if err != nil {
		return err
	}
	if key.Status == enums.APIKeyStatusRevoked {
		return nil
	}
	return s.markRevoked(ctx, key)
}

func (s *service) Suspend(ctx context.Context, storeID, keyID uuid.UUID) error {
	return s.setStatus(ctx, storeID, keyID, enums.APIKeyStatusSuspended)
}

func (s *service) Resume(ctx context.Context, storeID, keyID uuid.UUID) error {
	return s.setStatus(ctx, storeID, keyID, enums.APIKeyStatusActive)
}

// Authenticate resolves a presented secret to an active, unexpired key and
// stamps its last use. All failure modes share one unauthorized error.
func (s *service) Authenticate(ctx context.Context, secret string) (*APIKeyDTO, error) {
	if !strings.HasPrefix(secret, secretPrefix) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key")
	}

	key, err := s.repo.FindBySecretHash(ctx, HashSecret(secret))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load api key")
	}
	if key.Status != enums.APIKeyStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key")
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key")
	}

	if err := s.repo.TouchLastUsed(ctx, key.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch api key")
	}
	return FromModel(key), nil
}

func (s *service) setStatus(ctx context.Context, storeID, keyID uuid.UUID, status enums.APIKeyStatus) error {
	key, err := s.load(ctx, storeID, keyID)
	if err != nil {
		return err
	}
	if key.Status == enums.APIKeyStatusRevoked {
		return pkgerrors.New(pkgerrors.CodeConflict, "api key is revoked")
	}
	if key.Status == status {
		return nil
	}
	key.Status = status
	if err := s.repo.Update(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update api key")
	}
	return nil
}

func (s *service) markRevoked(ctx context.Context, key *models.APIKey) error {
	now := time.Now().UTC()
	key.Status = enums.APIKeyStatusRevoked
	key.RevokedAt = &now
	if err := s.repo.Update(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke api key")
	}
	return nil
}

func (s *service) load(ctx context.Context, storeID, keyID uuid.UUID) (*models.APIKey, error) {
	if storeID == uuid.Nil || keyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier")
	}
	key, err := s.repo.FindByID(ctx, keyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "api key not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load api key")
	}
	if key.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "api key not found")
	}
	return key, nil
}
