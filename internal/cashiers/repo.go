package cashiers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// Repository handles cashier persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to cashier operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new cashier row.
func (r *Repository) Create(ctx context.Context, cashier *models.Cashier) error {
	if cashier == nil {
		return fmt.Errorf("cashier is required")
	}
	return r.db.WithContext(ctx).Create(cashier).Error
}

// FindByID loads a cashier by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error) {
	var cashier models.Cashier
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&cashier).Error; err != nil {
		return nil, err
	}
	return &cashier, nil
}

// FindByStoreAndCode loads a cashier by its store-unique short code.
func (r *Repository) FindByStoreAndCode(ctx context.Context, storeID uuid.UUID, code string) (*models.Cashier, error) {
	var cashier models.Cashier
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND cashier_code = ?", storeID, code).
		First(&cashier).Error; err != nil {
		return nil, err
	}
	return &cashier, nil
}

// FindByStore returns all cashiers for a store ordered by display name.
func (r *Repository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.Cashier, error) {
	var cashiers []models.Cashier
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("display_name ASC").
		Find(&cashiers).Error; err != nil {
		return nil, err
	}
	return cashiers, nil
}

// FindChangedSince returns cashiers updated after the given instant,
// consumed by the terminal pull sync.
func (r *Repository) FindChangedSince(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.Cashier, error) {
	var cashiers []models.Cashier
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND updated_at > ?", storeID, since).
		Order("updated_at ASC").
		Find(&cashiers).Error; err != nil {
		return nil, err
	}
	return cashiers, nil
}

// Update saves the provided cashier.
func (r *Repository) Update(ctx context.Context, cashier *models.Cashier) error {
	if cashier == nil {
		return fmt.Errorf("cashier is required")
	}
	return r.db.WithContext(ctx).Save(cashier).Error
}

// TouchLastLogin stamps a successful PIN verification.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Cashier{}).
		Where("id = ?", id).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// CodeInUse reports whether a cashier code is already taken in a store.
func (r *Repository) CodeInUse(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Cashier{}).
		Where("store_id = ? AND cashier_code = ? AND status <> ?", storeID, code, enums.CashierStatusTerminated).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
