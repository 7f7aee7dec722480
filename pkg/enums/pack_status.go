package enums

import "fmt"

// PackStatus maps to the pack_status enum in Postgres.
type PackStatus string

const (
	PackStatusPending  PackStatus = "PENDING"
	PackStatusActive   PackStatus = "ACTIVE"
	PackStatusSettled  PackStatus = "SETTLED"
	PackStatusReturned PackStatus = "RETURNED"
)

var validPackStatuses = []PackStatus{
	PackStatusPending,
	PackStatusActive,
	PackStatusSettled,
	PackStatusReturned,
}

// String implements fmt.Stringer.
func (p PackStatus) String() string {
	return string(p)
}

// IsValid reports whether the value matches the canonical pack_status enum.
func (p PackStatus) IsValid() bool {
	for _, candidate := range validPackStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePackStatus converts raw input into PackStatus.
func ParsePackStatus(value string) (PackStatus, error) {
	for _, candidate := range validPackStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pack status %q", value)
}
