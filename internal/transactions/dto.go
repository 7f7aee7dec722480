package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// TransactionDTO exposes a ledger row in API responses.
type TransactionDTO struct {
	ID             uuid.UUID               `json:"id"`
	StoreID        uuid.UUID               `json:"store_id"`
	CashierID      *uuid.UUID              `json:"cashier_id,omitempty"`
	TerminalKeyID  *uuid.UUID              `json:"terminal_key_id,omitempty"`
	ExternalRef    string                  `json:"external_ref"`
	RegisterNumber int                     `json:"register_number"`
	Type           enums.TransactionType   `json:"type"`
	Status         enums.TransactionStatus `json:"status"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	Tax            decimal.Decimal         `json:"tax"`
	Total          decimal.Decimal         `json:"total"`
	Lines          []TransactionLineDTO    `json:"lines,omitempty"`
	OccurredAt     time.Time               `json:"occurred_at"`
	CreatedAt      time.Time               `json:"created_at"`
}

// TransactionLineDTO is one item on a transaction.
type TransactionLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	SKU         *string         `json:"sku,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// TransactionPage is one cursor-paginated slice of the ledger.
type TransactionPage struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
	HasMore      bool             `json:"has_more"`
}

// IngestResult reports how a pushed terminal batch was absorbed.
type IngestResult struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
}

// FromModel maps the persisted transaction into a DTO.
func FromModel(m *models.Transaction) *TransactionDTO {
	if m == nil {
		return nil
	}
	dto := &TransactionDTO{
		ID:             m.ID,
		StoreID:        m.StoreID,
		CashierID:      m.CashierID,
		TerminalKeyID:  m.TerminalKeyID,
		ExternalRef:    m.ExternalRef,
		RegisterNumber: m.RegisterNumber,
		Type:           m.Type,
		Status:         m.Status,
		Subtotal:       m.Subtotal,
		Tax:            m.Tax,
		Total:          m.Total,
		OccurredAt:     m.OccurredAt,
		CreatedAt:      m.CreatedAt,
	}
	for i := range m.Lines {
		line := m.Lines[i]
		dto.Lines = append(dto.Lines, TransactionLineDTO{
			ID:          line.ID,
			SKU:         line.SKU,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}
	return dto
}
