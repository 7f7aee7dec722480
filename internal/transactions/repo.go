package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/pagination"
)

// ListFilter narrows a ledger query.
type ListFilter struct {
	From          *time.Time
	To            *time.Time
	CashierID     *uuid.UUID
	TerminalKeyID *uuid.UUID
}

// Repository handles ledger persistence. Rows are immutable once written;
// corrections arrive as new rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to ledger operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByStore returns one buffered page of transactions, newest first.
func (r *Repository) FindByStore(ctx context.Context, storeID uuid.UUID, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at < ?", *filter.To)
	}
	if filter.CashierID != nil {
		query = query.Where("cashier_id = ?", *filter.CashierID)
	}
	if filter.TerminalKeyID != nil {
		query = query.Where("terminal_key_id = ?", *filter.TerminalKeyID)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Transaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one transaction with its lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var row models.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ExternalRefsExist returns which of the given refs are already recorded
// for the store.
func (r *Repository) ExternalRefsExist(ctx context.Context, storeID uuid.UUID, refs []string) (map[string]bool, error) {
	seen := make(map[string]bool, len(refs))
	if len(refs) == 0 {
		return seen, nil
	}
	var existing []string
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("store_id = ? AND external_ref IN ?", storeID, refs).
		Pluck("external_ref", &existing).Error; err != nil {
		return nil, err
	}
	for _, ref := range existing {
		seen[ref] = true
	}
	return seen, nil
}

// CreateBatchWithTx bulk-inserts transactions and their lines.
func (r *Repository) CreateBatchWithTx(tx *gorm.DB, rows []*models.Transaction) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}
