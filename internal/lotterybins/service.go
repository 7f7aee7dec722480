package lotterybins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"github.com/djmax1976/nuvana-backoffice/pkg/db"
	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
)

type txRunner interface {
	WithTxTimeout(ctx context.Context, timeout time.Duration, fn func(tx *gorm.DB) error) error
}

type binRepository interface {
	FindAllWithTx(tx *gorm.DB, storeID uuid.UUID) ([]models.LotteryBin, error)
	ReactivateWithTx(tx *gorm.DB, ids []uuid.UUID) error
	DeactivateWithTx(tx *gorm.DB, ids []uuid.UUID) error
	CreateWithTx(tx *gorm.DB, bins []*models.LotteryBin) error
	FindActiveBins(ctx context.Context, storeID uuid.UUID) ([]models.LotteryBin, error)
	CountActive(ctx context.Context, storeID uuid.UUID) (int64, error)
	PackedActiveDisplayOrders(ctx context.Context, storeID uuid.UUID) ([]int, error)
}

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Store, error)
	UpdateWithTx(tx *gorm.DB, store *models.Store) error
}

// Service reconciles a store's physical lottery bin slots against a
// configured target count.
type Service interface {
	GetBinCountStatus(ctx context.Context, storeID uuid.UUID) (*BinCountStatus, error)
	UpdateBinCount(ctx context.Context, storeID uuid.UUID, desiredCount int, actorID uuid.UUID) (*SyncResult, error)
	ValidateBinCountChange(ctx context.Context, storeID uuid.UUID, proposedCount int) (*PreviewResult, error)
}

type service struct {
	tx     txRunner
	repo   binRepository
	stores storeRepository
	cfg    config.LotteryConfig
}

// NewService builds the bin reconciliation service.
func NewService(tx txRunner, repo binRepository, stores storeRepository, cfg config.LotteryConfig) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("bin repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if cfg.MaxBinCount <= 0 {
		cfg.MaxBinCount = 200
	}
	return &service{tx: tx, repo: repo, stores: stores, cfg: cfg}, nil
}

// checkCount rejects a target outside [0, MaxBinCount] before any I/O.
func (s *service) checkCount(count int) error {
	if count < 0 || count > s.cfg.MaxBinCount {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("bin count must be between 0 and %d", s.cfg.MaxBinCount))
	}
	return nil
}

func (s *service) GetBinCountStatus(ctx context.Context, storeID uuid.UUID) (*BinCountStatus, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	bins, err := s.repo.FindActiveBins(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bins")
	}

	withPacks := 0
	for _, bin := range bins {
		if len(bin.Packs) > 0 {
			withPacks++
		}
	}

	return &BinCountStatus{
		StoreID:       storeID,
		BinCount:      store.LotteryBinCount,
		ActiveBins:    len(bins),
		BinsWithPacks: withPacks,
		EmptyBins:     len(bins) - withPacks,
	}, nil
}

func (s *service) UpdateBinCount(ctx context.Context, storeID uuid.UUID, desiredCount int, actorID uuid.UUID) (*SyncResult, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid actor id")
	}
	if err := s.checkCount(desiredCount); err != nil {
		return nil, err
	}

	var result *SyncResult
	err := s.tx.WithTxTimeout(ctx, s.cfg.TxTimeout, func(tx *gorm.DB) error {
		store, err := s.stores.FindByIDWithTx(tx, storeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}

		bins, err := s.repo.FindAllWithTx(tx, storeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bins")
		}

		var active, inactive []models.LotteryBin
		for _, bin := range bins {
			if bin.IsActive {
				active = append(active, bin)
			} else {
				inactive = append(inactive, bin)
			}
		}

		previous := cloneIntPtr(store.LotteryBinCount)
		result = &SyncResult{PreviousCount: previous, NewCount: desiredCount}

		switch {
		case desiredCount > len(active):
			if err := s.grow(tx, store, active, inactive, bins, desiredCount, result); err != nil {
				return err
			}
		case desiredCount < len(active):
			if err := s.shrink(tx, active, desiredCount, result); err != nil {
				return err
			}
		}

		store.LotteryBinCount = &desiredCount
		if err := s.stores.UpdateWithTx(tx, store); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store bin count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// grow reactivates the lowest-display-order inactive bins first, then
// creates new rows continuing from the highest display_order ever used.
func (s *service) grow(tx *gorm.DB, store *models.Store, active, inactive, all []models.LotteryBin, desiredCount int, result *SyncResult) error {
	needed := desiredCount - len(active)

	reactivate := inactive
	if len(reactivate) > needed {
		reactivate = reactivate[:needed]
	}
	if len(reactivate) > 0 {
		ids := make([]uuid.UUID, 0, len(reactivate))
		for _, bin := range reactivate {
			ids = append(ids, bin.ID)
		}
		if err := s.repo.ReactivateWithTx(tx, ids); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reactivate bins")
		}
		result.BinsReactivated = len(ids)
		needed -= len(ids)
	}

	if needed > 0 {
		// display_order is never reused, so new bins continue past the
		// highest order ever assigned
		nextOrder := 0
		if len(all) > 0 {
			nextOrder = all[len(all)-1].DisplayOrder + 1
		}
		created := make([]*models.LotteryBin, 0, needed)
		for i := 0; i < needed; i++ {
			order := nextOrder + i
			created = append(created, &models.LotteryBin{
				StoreID:      store.ID,
				DisplayOrder: order,
				Name:         fmt.Sprintf("Bin %d", order+1),
				IsActive:     true,
			})
		}
		if err := s.repo.CreateWithTx(tx, created); err != nil {
			// Two reconciles racing on the same store collide on the
			// (store_id, display_order) unique constraint.
			if db.IsUniqueViolation(err, "display_order") {
				return pkgerrors.New(pkgerrors.CodeConflict, "bin layout changed concurrently, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bins")
		}
		result.BinsCreated = needed
	}
	return nil
}

// shrink walks active bins by display_order descending and deactivates the
// highest-numbered empty ones. A removal candidate holding an ACTIVE pack
// blocks the whole operation; the candidate list is checked in full before
// any row is touched so a blocked request mutates nothing.
func (s *service) shrink(tx *gorm.DB, active []models.LotteryBin, desiredCount int, result *SyncResult) error {
	removeCount := len(active) - desiredCount

	// active arrives sorted ascending; candidates are the top removeCount
	candidates := make([]models.LotteryBin, 0, removeCount)
	for i := len(active) - 1; i >= 0 && len(candidates) < removeCount; i-- {
		candidates = append(candidates, active[i])
	}

	deactivate := make([]uuid.UUID, 0, removeCount)
	blocked := 0
	for _, bin := range candidates {
		if len(bin.Packs) > 0 {
			blocked++
			continue
		}
		deactivate = append(deactivate, bin.ID)
	}
	result.BinsWithPacksCount = blocked

	if len(deactivate) < removeCount {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot remove %d bin(s): they hold active lottery packs", blocked)).
			WithDetails(map[string]any{"bins_with_packs": blocked})
	}

	if err := s.repo.DeactivateWithTx(tx, deactivate); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate bins")
	}
	result.BinsDeactivated = len(deactivate)
	return nil
}

func (s *service) ValidateBinCountChange(ctx context.Context, storeID uuid.UUID, proposedCount int) (*PreviewResult, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}
	if err := s.checkCount(proposedCount); err != nil {
		return nil, err
	}

	activeCount, err := s.repo.CountActive(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active bins")
	}
	current := int(activeCount)

	result := &PreviewResult{
		Allowed:      true,
		CurrentCount: current,
	}
	if proposedCount > current {
		result.BinsToAdd = proposedCount - current
	}
	if proposedCount < current {
		result.BinsToRemove = current - proposedCount
	}

	if result.BinsToRemove > 0 {
		packedOrders, err := s.repo.PackedActiveDisplayOrders(ctx, storeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load packed bins")
		}
		// the kept bins are the proposedCount lowest display_orders, so a
		// packed bin above this threshold would be forced out
		keptThreshold := proposedCount - 1
		for _, order := range packedOrders {
			if order > keptThreshold {
				result.BinsWithPacksBlocking++
			}
		}
		result.Allowed = result.BinsWithPacksBlocking == 0
	}

	result.Message = previewMessage(result)
	return result, nil
}

func previewMessage(r *PreviewResult) string {
	switch {
	case r.BinsWithPacksBlocking > 0:
		return fmt.Sprintf("Cannot remove %d bin(s) because they hold active packs. Move or settle the packs first.", r.BinsWithPacksBlocking)
	case r.BinsToRemove > 0:
		return fmt.Sprintf("Will remove %d bin(s), highest-numbered first.", r.BinsToRemove)
	case r.BinsToAdd > 0:
		return fmt.Sprintf("Will add %d bin(s).", r.BinsToAdd)
	default:
		return "No changes needed."
	}
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
