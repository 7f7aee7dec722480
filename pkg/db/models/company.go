package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// Company is the top-level tenant owning one or more stores.
type Company struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Status    enums.TenantStatus `gorm:"column:status;type:tenant_status;not null;default:'active'"`
	Phone     *string            `gorm:"column:phone"`
	Email     *string            `gorm:"column:email"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
