package lotterybins

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// Repository handles lottery bin persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to lottery bin operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindAllWithTx loads every bin row for a store, active and inactive,
// with its ACTIVE packs preloaded, ordered by display_order ascending.
func (r *Repository) FindAllWithTx(tx *gorm.DB, storeID uuid.UUID) ([]models.LotteryBin, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var bins []models.LotteryBin
	if err := tx.
		Preload("Packs", "status = ?", enums.PackStatusActive).
		Where("store_id = ?", storeID).
		Order("display_order ASC").
		Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

// ReactivateWithTx bulk-flips the given bins back to active.
func (r *Repository) ReactivateWithTx(tx *gorm.DB, ids []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&models.LotteryBin{}).
		Where("id IN ?", ids).
		Update("is_active", true).Error
}

// DeactivateWithTx bulk-flips the given bins to inactive.
func (r *Repository) DeactivateWithTx(tx *gorm.DB, ids []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&models.LotteryBin{}).
		Where("id IN ?", ids).
		Update("is_active", false).Error
}

// CreateWithTx bulk-inserts new bin rows.
func (r *Repository) CreateWithTx(tx *gorm.DB, bins []*models.LotteryBin) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(bins) == 0 {
		return nil
	}
	return tx.Create(&bins).Error
}

// FindActiveBins loads the active bins of a store with ACTIVE packs
// preloaded, ordered by display_order ascending.
func (r *Repository) FindActiveBins(ctx context.Context, storeID uuid.UUID) ([]models.LotteryBin, error) {
	var bins []models.LotteryBin
	if err := r.db.WithContext(ctx).
		Preload("Packs", "status = ?", enums.PackStatusActive).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("display_order ASC").
		Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

// CountActive returns how many bins are currently active for a store.
func (r *Repository) CountActive(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LotteryBin{}).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// PackedActiveDisplayOrders returns the display_order of every active bin
// holding at least one ACTIVE pack, descending. The descending order
// mirrors the reconcile shrink walk.
func (r *Repository) PackedActiveDisplayOrders(ctx context.Context, storeID uuid.UUID) ([]int, error) {
	var orders []int
	if err := r.db.WithContext(ctx).Model(&models.LotteryBin{}).
		Distinct("lottery_bins.display_order").
		Joins("JOIN lottery_packs ON lottery_packs.bin_id = lottery_bins.id AND lottery_packs.status = ?", enums.PackStatusActive).
		Where("lottery_bins.store_id = ? AND lottery_bins.is_active = ?", storeID, true).
		Order("lottery_bins.display_order DESC").
		Pluck("lottery_bins.display_order", &orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindChangedSince returns bins touched after the given instant, active or
// not, so terminals can mirror deactivations during pull sync.
func (r *Repository) FindChangedSince(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.LotteryBin, error) {
	var bins []models.LotteryBin
	if err := r.db.WithContext(ctx).
		Preload("Packs", "status = ?", enums.PackStatusActive).
		Where("store_id = ? AND updated_at > ?", storeID, since).
		Order("display_order ASC").
		Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}
