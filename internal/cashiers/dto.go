package cashiers

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// CashierDTO exposes POS operator data in API responses. The PIN hash
// never leaves the service layer.
type CashierDTO struct {
	ID          uuid.UUID           `json:"id"`
	StoreID     uuid.UUID           `json:"store_id"`
	EmployeeID  *uuid.UUID          `json:"employee_id,omitempty"`
	DisplayName string              `json:"display_name"`
	CashierCode string              `json:"cashier_code"`
	Status      enums.CashierStatus `json:"status"`
	LastLoginAt *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromModel maps the persisted cashier into a DTO.
func FromModel(m *models.Cashier) *CashierDTO {
	if m == nil {
		return nil
	}
	return &CashierDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		EmployeeID:  m.EmployeeID,
		DisplayName: m.DisplayName,
		CashierCode: m.CashierCode,
		Status:      m.Status,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
