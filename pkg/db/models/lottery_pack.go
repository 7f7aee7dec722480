package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
)

// LotteryPack is an inventory unit of scratch tickets, optionally assigned
// to a bin. Only packs in ACTIVE status block their bin from deactivation.
// The bin reconciliation engine reads this relation and never mutates it.
type LotteryPack struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index"`
	BinID      *uuid.UUID       `gorm:"column:bin_id;type:uuid;index"`
	GameCode   string           `gorm:"column:game_code;not null"`
	PackNumber string           `gorm:"column:pack_number;not null"`
	Status     enums.PackStatus `gorm:"column:status;type:pack_status;not null;default:'PENDING'"`
	TicketsLow *int             `gorm:"column:tickets_low"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
