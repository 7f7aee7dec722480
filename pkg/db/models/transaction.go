package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// Transaction is a POS ledger row pushed by a terminal batch. The back
// office queries these read-only; corrections happen as new rows.
type Transaction struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID        uuid.UUID               `gorm:"column:store_id;type:uuid;not null;index"`
	CashierID      *uuid.UUID              `gorm:"column:cashier_id;type:uuid"`
	TerminalKeyID  *uuid.UUID              `gorm:"column:terminal_key_id;type:uuid"`
	ExternalRef    string                  `gorm:"column:external_ref;not null"`
	RegisterNumber int                     `gorm:"column:register_number;not null;default:1"`
	Type           enums.TransactionType   `gorm:"column:type;type:transaction_type;not null"`
	Status         enums.TransactionStatus `gorm:"column:status;type:transaction_status;not null;default:'completed'"`
	Subtotal       decimal.Decimal         `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax            decimal.Decimal         `gorm:"column:tax;type:numeric(12,2);not null"`
	Total          decimal.Decimal         `gorm:"column:total;type:numeric(12,2);not null"`
	Lines          []TransactionLine       `gorm:"foreignKey:TransactionID"`
	OccurredAt     time.Time               `gorm:"column:occurred_at;not null;index"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
}

// TransactionLine is one item on a transaction.
type TransactionLine struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null;index"`
	SKU           *string         `gorm:"column:sku"`
	Description   string          `gorm:"column:description;not null"`
	Quantity      int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal     decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}
