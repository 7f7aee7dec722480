package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/djmax1976/nuvana-backoffice/api/middleware"
	"github.com/djmax1976/nuvana-backoffice/api/responses"
	"github.com/djmax1976/nuvana-backoffice/api/validators"
	"github.com/djmax1976/nuvana-backoffice/internal/cashiers"
	syncsvc "github.com/djmax1976/nuvana-backoffice/internal/sync"
	"github.com/djmax1976/nuvana-backoffice/internal/transactions"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/logger"
)

type pushLineRequest struct {
	SKU         *string         `json:"sku,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type pushTransactionRequest struct {
	ExternalRef    string            `json:"external_ref" validate:"required"`
	CashierID      *uuid.UUID        `json:"cashier_id,omitempty"`
	RegisterNumber int               `json:"register_number" validate:"omitempty,min=1"`
	Type           string            `json:"type" validate:"required"`
	Status         string            `json:"status,omitempty"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	Tax            decimal.Decimal   `json:"tax"`
	Total          decimal.Decimal   `json:"total"`
	OccurredAt     time.Time         `json:"occurred_at" validate:"required"`
	Lines          []pushLineRequest `json:"lines,omitempty"`
}

type pushRequest struct {
	Transactions []pushTransactionRequest `json:"transactions" validate:"required"`
}

func (r pushRequest) toBatch() syncsvc.PushBatch {
	batch := syncsvc.PushBatch{Transactions: make([]transactions.IngestTransaction, 0, len(r.Transactions))}
	for _, record := range r.Transactions {
		lines := make([]transactions.IngestLine, 0, len(record.Lines))
		for _, line := range record.Lines {
			lines = append(lines, transactions.IngestLine{
				SKU:         line.SKU,
				Description: line.Description,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				LineTotal:   line.LineTotal,
			})
		}
		batch.Transactions = append(batch.Transactions, transactions.IngestTransaction{
			ExternalRef:    record.ExternalRef,
			CashierID:      record.CashierID,
			RegisterNumber: record.RegisterNumber,
			Type:           enums.TransactionType(record.Type),
			Status:         enums.TransactionStatus(record.Status),
			Subtotal:       record.Subtotal,
			Tax:            record.Tax,
			Total:          record.Total,
			OccurredAt:     record.OccurredAt,
			Lines:          lines,
		})
	}
	return batch
}

// SyncPull hands a terminal its reference data, full or delta depending on
// its cursor age.
func SyncPull(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}

		key := middleware.APIKeyFromContext(r.Context())
		result, err := svc.Pull(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SyncPush accepts a terminal's buffered transactions.
func SyncPush(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}

		key := middleware.APIKeyFromContext(r.Context())

		var payload pushRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Push(r.Context(), key, payload.toBatch())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type verifyPinRequest struct {
	CashierCode string `json:"cashier_code" validate:"required"`
	Pin         string `json:"pin" validate:"required"`
}

// SyncVerifyPIN authenticates a terminal operator against the store's
// cashier roster.
func SyncVerifyPIN(svc cashiers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cashier service unavailable"))
			return
		}

		key := middleware.APIKeyFromContext(r.Context())
		if key == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key"))
			return
		}

		var payload verifyPinRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.VerifyPIN(r.Context(), key.StoreID, payload.CashierCode, payload.Pin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
