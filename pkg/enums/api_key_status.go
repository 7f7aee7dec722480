package enums

import "fmt"

// APIKeyStatus maps to the api_key_status enum in Postgres.
type APIKeyStatus string

const (
	APIKeyStatusActive    APIKeyStatus = "active"
	APIKeyStatusSuspended APIKeyStatus = "suspended"
	APIKeyStatusRevoked   APIKeyStatus = "revoked"
)

var validAPIKeyStatuses = []APIKeyStatus{
	APIKeyStatusActive,
	APIKeyStatusSuspended,
	APIKeyStatusRevoked,
}

// String implements fmt.Stringer.
func (a APIKeyStatus) String() string {
	return string(a)
}

// IsValid reports whether the value matches the canonical api_key_status enum.
func (a APIKeyStatus) IsValid() bool {
	for _, candidate := range validAPIKeyStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAPIKeyStatus converts raw input into APIKeyStatus.
func ParseAPIKeyStatus(value string) (APIKeyStatus, error) {
	for _, candidate := range validAPIKeyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid api key status %q", value)
}
