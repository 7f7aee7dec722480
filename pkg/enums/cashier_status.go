package enums

import "fmt"

// CashierStatus maps to the cashier_status enum in Postgres.
type CashierStatus string

const (
	CashierStatusActive     CashierStatus = "active"
	CashierStatusSuspended  CashierStatus = "suspended"
	CashierStatusTerminated CashierStatus = "terminated"
)

var validCashierStatuses = []CashierStatus{
	CashierStatusActive,
	CashierStatusSuspended,
	CashierStatusTerminated,
}

// String implements fmt.Stringer.
func (c CashierStatus) String() string {
	return string(c)
}

// IsValid reports whether the value matches the canonical cashier_status enum.
func (c CashierStatus) IsValid() bool {
	for _, candidate := range validCashierStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCashierStatus converts raw input into CashierStatus.
func ParseCashierStatus(value string) (CashierStatus, error) {
	for _, candidate := range validCashierStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cashier status %q", value)
}

// CanLogin reports whether a cashier in this status may authenticate at a terminal.
func (c CashierStatus) CanLogin() bool {
	return c == CashierStatusActive
}
