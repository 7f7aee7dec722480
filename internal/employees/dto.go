package employees

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
)

// EmployeeDTO exposes staff data in API responses.
type EmployeeDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	JobTitle  *string   `json:"job_title,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmployeePage is one cursor-paginated slice of employees.
type EmployeePage struct {
	Employees  []EmployeeDTO `json:"employees"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// FromModel maps the persisted employee into a DTO.
func FromModel(m *models.Employee) *EmployeeDTO {
	if m == nil {
		return nil
	}
	return &EmployeeDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		JobTitle:  m.JobTitle,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
