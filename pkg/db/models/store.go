package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// Store is a single retail location belonging to a company.
//
// LotteryBinCount is the configured target of active lottery bins. It is
// written only by the bin reconciliation engine as the final step of a
// successful reconcile, so outside of an aborted operation it always equals
// the count of active LotteryBin rows for the store.
type Store struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID       uuid.UUID          `gorm:"column:company_id;type:uuid;not null"`
	Name            string             `gorm:"column:name;not null"`
	Status          enums.TenantStatus `gorm:"column:status;type:tenant_status;not null;default:'active'"`
	AddressLine1    *string            `gorm:"column:address_line1"`
	AddressLine2    *string            `gorm:"column:address_line2"`
	City            *string            `gorm:"column:city"`
	State           *string            `gorm:"column:state"`
	PostalCode      *string            `gorm:"column:postal_code"`
	Phone           *string            `gorm:"column:phone"`
	Timezone        string             `gorm:"column:timezone;not null;default:'America/New_York'"`
	RegisterCount   int                `gorm:"column:register_count;not null;default:1"`
	POSVendors      pq.StringArray     `gorm:"column:pos_vendors;type:text[]"`
	LotteryBinCount *int               `gorm:"column:lottery_bin_count"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
