package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// APIKey is a sync credential issued to an offline POS terminal. The secret
// is shown once at creation; only its SHA-256 digest persists. Prefix is the
// first characters of the secret kept for operator identification.
type APIKey struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID          `gorm:"column:store_id;type:uuid;not null;index"`
	Label      string             `gorm:"column:label;not null"`
	Prefix     string             `gorm:"column:prefix;not null"`
	SecretHash string             `gorm:"column:secret_hash;not null;unique"`
	Status     enums.APIKeyStatus `gorm:"column:status;type:api_key_status;not null;default:'active'"`
	ExpiresAt  *time.Time         `gorm:"column:expires_at"`
	LastUsedAt *time.Time         `gorm:"column:last_used_at"`
	RevokedAt  *time.Time         `gorm:"column:revoked_at"`
	CreatedBy  uuid.UUID          `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
