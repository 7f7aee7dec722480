package companies

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// CompanyDTO exposes tenant data in API responses.
type CompanyDTO struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Status    enums.TenantStatus `json:"status"`
	Phone     *string            `json:"phone,omitempty"`
	Email     *string            `json:"email,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// FromModel maps the persisted company into a DTO.
func FromModel(m *models.Company) *CompanyDTO {
	if m == nil {
		return nil
	}
	return &CompanyDTO{
		ID:        m.ID,
		Name:      m.Name,
		Status:    m.Status,
		Phone:     m.Phone,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
