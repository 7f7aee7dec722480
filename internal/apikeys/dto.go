package apikeys

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// APIKeyDTO exposes sync credential metadata. The secret hash never leaves
// the service layer; the plaintext secret appears only in CreatedKeyDTO.
type APIKeyDTO struct {
	ID         uuid.UUID          `json:"id"`
	StoreID    uuid.UUID          `json:"store_id"`
	Label      string             `json:"label"`
	Prefix     string             `json:"prefix"`
	Status     enums.APIKeyStatus `json:"status"`
	ExpiresAt  *time.Time         `json:"expires_at,omitempty"`
	LastUsedAt *time.Time         `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time         `json:"revoked_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// CreatedKeyDTO carries the one-time plaintext secret alongside metadata.
type CreatedKeyDTO struct {
	APIKeyDTO
	Secret string `json:"secret"`
}

// FromModel maps the persisted key into a DTO.
func FromModel(m *models.APIKey) *APIKeyDTO {
	if m == nil {
		return nil
	}
	return &APIKeyDTO{
		ID:         m.ID,
		StoreID:    m.StoreID,
		Label:      m.Label,
		Prefix:     m.Prefix,
		Status:     m.Status,
		ExpiresAt:  m.ExpiresAt,
		LastUsedAt: m.LastUsedAt,
		RevokedAt:  m.RevokedAt,
		CreatedAt:  m.CreatedAt,
	}
}
