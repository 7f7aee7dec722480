package models

import (
	"time"

	"github.com/google/uuid"
)

// LotteryBin is one physical ticket bin slot at a store.
//
// DisplayOrder is 0-indexed, unique per store, and never reused or
// renumbered: deactivation flips IsActive off and a later reactivation
// restores the same row. The display name is 1-indexed ("Bin 1" holds
// display_order 0).
type LotteryBin struct {
	ID           uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID     `gorm:"column:store_id;type:uuid;not null;index"`
	DisplayOrder int           `gorm:"column:display_order;not null"`
	Name         string        `gorm:"column:name;not null"`
	IsActive     bool          `gorm:"column:is_active;not null;default:true"`
	Packs        []LotteryPack `gorm:"foreignKey:BinID"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
