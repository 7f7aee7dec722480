package sync

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
)

// Repository persists per-API-key sync checkpoints.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to sync cursor operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find loads the checkpoint for an API key.
func (r *Repository) Find(ctx context.Context, apiKeyID uuid.UUID) (*models.SyncCursor, error) {
	var cursor models.SyncCursor
	if err := r.db.WithContext(ctx).
		Where("api_key_id = ?", apiKeyID).
		First(&cursor).Error; err != nil {
		return nil, err
	}
	return &cursor, nil
}

// Upsert writes the checkpoint, inserting on first contact.
func (r *Repository) Upsert(ctx context.Context, cursor *models.SyncCursor) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "api_key_id"}},
			UpdateAll: true,
		}).
		Create(cursor).Error
}
