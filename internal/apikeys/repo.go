package apikeys

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
)

// Repository handles API key persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to API key operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new key row.
func (r *Repository) Create(ctx context.Context, key *models.APIKey) error {
	if key == nil {
		return fmt.Errorf("api key is required")
	}
	return r.db.WithContext(ctx).Create(key).Error
}

// FindByID loads a key by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// FindBySecretHash resolves an incoming secret digest to its key row.
func (r *Repository) FindBySecretHash(ctx context.Context, hash string) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.WithContext(ctx).
		Where("secret_hash = ?", hash).
		First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// FindByStore returns all keys for a store, newest first.
func (r *Repository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// Update saves the provided key.
func (r *Repository) Update(ctx context.Context, key *models.APIKey) error {
	if key == nil {
		return fmt.Errorf("api key is required")
	}
	return r.db.WithContext(ctx).Save(key).Error
}

// TouchLastUsed stamps a successful authentication.
func (r *Repository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
