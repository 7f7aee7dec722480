package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// Cashier is a POS operator identified at the terminal by a numeric PIN.
// The PIN itself is never stored, only its bcrypt hash.
type Cashier struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	EmployeeID   *uuid.UUID          `gorm:"column:employee_id;type:uuid"`
	DisplayName  string              `gorm:"column:display_name;not null"`
	CashierCode  string              `gorm:"column:cashier_code;not null"`
	PinHash      string              `gorm:"column:pin_hash;not null"`
	Status       enums.CashierStatus `gorm:"column:status;type:cashier_status;not null;default:'active'"`
	LastLoginAt  *time.Time          `gorm:"column:last_login_at"`
	TerminatedAt *time.Time          `gorm:"column:terminated_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
