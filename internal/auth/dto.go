package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// LoginRequest carries back-office credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair plus the authenticated user.
type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         *UserDTO `json:"user"`
}

// RefreshResponse returns a rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterInput captures a new back-office user under a company.
type RegisterInput struct {
	CompanyID uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      enums.UserRole
}

// UserDTO is the API projection of a back-office user.
type UserDTO struct {
	ID             uuid.UUID      `json:"id"`
	CompanyID      uuid.UUID      `json:"company_id"`
	Email          string         `json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Role           enums.UserRole `json:"role"`
	LastLoggedInAt *time.Time     `json:"last_logged_in_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:             m.ID,
		CompanyID:      m.CompanyID,
		Email:          m.Email,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Role:           m.Role,
		LastLoggedInAt: m.LastLoggedInAt,
		CreatedAt:      m.CreatedAt,
	}
}
