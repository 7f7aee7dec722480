package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ledgerRepository interface {
	FindByStore(ctx context.Context, storeID uuid.UUID, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ExternalRefsExist(ctx context.Context, storeID uuid.UUID, refs []string) (map[string]bool, error)
	CreateBatchWithTx(tx *gorm.DB, rows []*models.Transaction) error
}

// Service exposes read-only ledger querying plus the terminal batch
// ingest used by the sync surface.
type Service interface {
	List(ctx context.Context, storeID uuid.UUID, filter ListFilter, params pagination.Params) (*TransactionPage, error)
	GetByID(ctx context.Context, storeID, transactionID uuid.UUID) (*TransactionDTO, error)
	Ingest(ctx context.Context, storeID uuid.UUID, terminalKeyID uuid.UUID, batch []IngestTransaction) (*IngestResult, error)
}

type service struct {
	tx   txRunner
	repo ledgerRepository
}

// NewService builds a transaction service.
func NewService(tx txRunner, repo ledgerRepository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	return &service{tx: tx, repo: repo}, nil
}

// IngestTransaction is one pushed terminal record.
type IngestTransaction struct {
	ExternalRef    string
	CashierID      *uuid.UUID
	RegisterNumber int
	Type           enums.TransactionType
	Status         enums.TransactionStatus
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	OccurredAt     time.Time
	Lines          []IngestLine
}

// IngestLine is one item on a pushed record.
type IngestLine struct {
	SKU         *string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, filter ListFilter, params pagination.Params) (*TransactionPage, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range is inverted")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	rows, err := s.repo.FindByStore(ctx, storeID, filter, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	rows, hasMore := pagination.TrimPage(rows, params.Limit)
	page := &TransactionPage{HasMore: hasMore, Transactions: make([]TransactionDTO, 0, len(rows))}
	for i := range rows {
		page.Transactions = append(page.Transactions, *FromModel(&rows[i]))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

func (s *service) GetByID(ctx context.Context, storeID, transactionID uuid.UUID) (*TransactionDTO, error) {
	if storeID == uuid.Nil || transactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier")
	}
	row, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	if row.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	return FromModel(row), nil
}

// Ingest absorbs a pushed terminal batch. Records whose external_ref is
// already present for the store are counted as duplicates and skipped, so
// a terminal can replay a batch after a dropped connection.
func (s *service) Ingest(ctx context.Context, storeID uuid.UUID, terminalKeyID uuid.UUID, batch []IngestTransaction) (*IngestResult, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}
	if len(batch) == 0 {
		return &IngestResult{}, nil
	}

	refs := make([]string, 0, len(batch))
	for i, record := range batch {
		ref := strings.TrimSpace(record.ExternalRef)
		if ref == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("record %d: external_ref is required", i))
		}
		if !record.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("record %d: invalid transaction type", i))
		}
		if record.OccurredAt.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("record %d: occurred_at is required", i))
		}
		refs = append(refs, ref)
	}

	existing, err := s.repo.ExternalRefsExist(ctx, storeID, refs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check external refs")
	}

	result := &IngestResult{}
	rows := make([]*models.Transaction, 0, len(batch))
	seenInBatch := map[string]bool{}
	for _, record := range batch {
		ref := strings.TrimSpace(record.ExternalRef)
		if existing[ref] || seenInBatch[ref] {
			result.Duplicates++
			continue
		}
		seenInBatch[ref] = true

		status := record.Status
		if status == "" {
			status = enums.TransactionStatusCompleted
		}
		register := record.RegisterNumber
		if register < 1 {
			register = 1
		}
		row := &models.Transaction{
			StoreID:        storeID,
			CashierID:      record.CashierID,
			TerminalKeyID:  &terminalKeyID,
			ExternalRef:    ref,
			RegisterNumber: register,
			Type:           record.Type,
			Status:         status,
			Subtotal:       record.Subtotal,
			Tax:            record.Tax,
			Total:          record.Total,
			OccurredAt:     record.OccurredAt,
		}
		for _, line := range record.Lines {
			row.Lines = append(row.Lines, models.TransactionLine{
				SKU:         line.SKU,
				Description: line.Description,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				LineTotal:   line.LineTotal,
			})
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.CreateBatchWithTx(tx, rows)
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ingest batch")
		}
	}
	result.Accepted = len(rows)
	return result, nil
}
