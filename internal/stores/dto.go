package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// StoreDTO exposes store data in API responses.
type StoreDTO struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"company_id"`
	Name            string             `json:"name"`
	Status          enums.TenantStatus `json:"status"`
	AddressLine1    *string            `json:"address_line1,omitempty"`
	AddressLine2    *string            `json:"address_line2,omitempty"`
	City            *string            `json:"city,omitempty"`
	State           *string            `json:"state,omitempty"`
	PostalCode      *string            `json:"postal_code,omitempty"`
	Phone           *string            `json:"phone,omitempty"`
	Timezone        string             `json:"timezone"`
	RegisterCount   int                `json:"register_count"`
	POSVendors      []string           `json:"pos_vendors,omitempty"`
	LotteryBinCount *int               `json:"lottery_bin_count"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CreateStoreDTO holds creation-time data for a new store.
type CreateStoreDTO struct {
	CompanyID     uuid.UUID
	Name          string
	AddressLine1  *string
	AddressLine2  *string
	City          *string
	State         *string
	PostalCode    *string
	Phone         *string
	Timezone      *string
	RegisterCount *int
	POSVendors    []string
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:              m.ID,
		CompanyID:       m.CompanyID,
		Name:            m.Name,
		Status:          m.Status,
		AddressLine1:    m.AddressLine1,
		AddressLine2:    m.AddressLine2,
		City:            m.City,
		State:           m.State,
		PostalCode:      m.PostalCode,
		Phone:           m.Phone,
		Timezone:        m.Timezone,
		RegisterCount:   m.RegisterCount,
		POSVendors:      m.POSVendors,
		LotteryBinCount: m.LotteryBinCount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateStoreDTO) ToModel() *models.Store {
	model := &models.Store{
		CompanyID:     c.CompanyID,
		Name:          c.Name,
		Status:        enums.TenantStatusActive,
		AddressLine1:  c.AddressLine1,
		AddressLine2:  c.AddressLine2,
		City:          c.City,
		State:         c.State,
		PostalCode:    c.PostalCode,
		Phone:         c.Phone,
		Timezone:      "America/New_York",
		RegisterCount: 1,
	}
	if c.Timezone != nil && *c.Timezone != "" {
		model.Timezone = *c.Timezone
	}
	if c.RegisterCount != nil {
		model.RegisterCount = *c.RegisterCount
	}
	if len(c.POSVendors) > 0 {
		model.POSVendors = append(model.POSVendors, c.POSVendors...)
	}
	return model
}
