package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	CompanyID     uuid.UUID
	ActiveStoreID *uuid.UUID
	Role          enums.UserRole
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to back-office clients.
type AccessTokenClaims struct {
	UserID        uuid.UUID      `json:"user_id"`
	CompanyID     uuid.UUID      `json:"company_id"`
	ActiveStoreID *uuid.UUID     `json:"active_store_id,omitempty"`
	Role          enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
