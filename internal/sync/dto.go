package sync

import (
	"time"

	"github.com/djmax1976/nuvana-backoffice/internal/cashiers"
	"github.com/djmax1976/nuvana-backoffice/internal/lotterybins"
	"github.com/djmax1976/nuvana-backoffice/internal/transactions"
)

// PullResult is the delta a terminal applies locally. FullSnapshot is set
// when the checkpoint was missing or stale and the payload carries the
// complete current state rather than changes.
type PullResult struct {
	FullSnapshot bool                  `json:"full_snapshot"`
	Cashiers     []cashiers.CashierDTO `json:"cashiers"`
	Bins         []lotterybins.BinDTO  `json:"bins"`
	ServerTime   time.Time             `json:"server_time"`
}

// PushResult reports how a pushed batch was absorbed.
type PushResult struct {
	Accepted   int       `json:"accepted"`
	Duplicates int       `json:"duplicates"`
	ServerTime time.Time `json:"server_time"`
}

// PushBatch is the terminal-side payload for a transaction push.
type PushBatch struct {
	Transactions []transactions.IngestTransaction
}
