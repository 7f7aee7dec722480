package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncCursor checkpoints how far an offline terminal has pulled
// back-office state, one row per API key.
type SyncCursor struct {
	APIKeyID     uuid.UUID  `gorm:"column:api_key_id;type:uuid;primaryKey"`
	StoreID      uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index"`
	LastPulledAt time.Time  `gorm:"column:last_pulled_at;not null"`
	LastPushedAt *time.Time `gorm:"column:last_pushed_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
