package lotterybins

import (
	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
)

// BinCountStatus summarizes the current bin configuration of a store.
type BinCountStatus struct {
	StoreID       uuid.UUID `json:"store_id"`
	BinCount      *int      `json:"bin_count"`
	ActiveBins    int       `json:"active_bins"`
	BinsWithPacks int       `json:"bins_with_packs"`
	EmptyBins     int       `json:"empty_bins"`
}

// SyncResult reports what a reconcile run changed.
type SyncResult struct {
	PreviousCount      *int `json:"previous_count"`
	NewCount           int  `json:"new_count"`
	BinsCreated        int  `json:"bins_created"`
	BinsReactivated    int  `json:"bins_reactivated"`
	BinsDeactivated    int  `json:"bins_deactivated"`
	BinsWithPacksCount int  `json:"bins_with_packs_count"`
}

// PreviewResult describes what a proposed bin count change would do,
// without touching any rows.
type PreviewResult struct {
	Allowed               bool   `json:"allowed"`
	CurrentCount          int    `json:"current_count"`
	BinsToAdd             int    `json:"bins_to_add"`
	BinsToRemove          int    `json:"bins_to_remove"`
	BinsWithPacksBlocking int    `json:"bins_with_packs_blocking"`
	Message               string `json:"message"`
}

// BinDTO exposes a single bin row in API responses.
type BinDTO struct {
	ID           uuid.UUID `json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	DisplayOrder int       `json:"display_order"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	ActivePacks  int       `json:"active_packs"`
}

// FromModel maps the persisted bin into a DTO. Packs must already be
// filtered to ACTIVE status by the loading query.
func FromModel(m *models.LotteryBin) *BinDTO {
	if m == nil {
		return nil
	}
	return &BinDTO{
		ID:           m.ID,
		StoreID:      m.StoreID,
		DisplayOrder: m.DisplayOrder,
		Name:         m.Name,
		IsActive:     m.IsActive,
		ActivePacks:  len(m.Packs),
	}
}
