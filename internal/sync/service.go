package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/internal/apikeys"
	"github.com/djmax1976/nuvana-backoffice/internal/cashiers"
	"github.com/djmax1976/nuvana-backoffice/internal/lotterybins"
	"github.com/djmax1976/nuvana-backoffice/internal/transactions"
	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
)

const pushLockTTL = 30 * time.Second

type cursorRepository interface {
	Find(ctx context.Context, apiKeyID uuid.UUID) (*models.SyncCursor, error)
	Upsert(ctx context.Context, cursor *models.SyncCursor) error
}

type cashierSource interface {
	FindChangedSince(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.Cashier, error)
}

type binSource interface {
	FindChangedSince(ctx context.Context, storeID uuid.UUID, since time.Time) ([]models.LotteryBin, error)
	FindActiveBins(ctx context.Context, storeID uuid.UUID) ([]models.LotteryBin, error)
}

type batchIngester interface {
	Ingest(ctx context.Context, storeID uuid.UUID, terminalKeyID uuid.UUID, batch []transactions.IngestTransaction) (*transactions.IngestResult, error)
}

type pushLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SyncLockKey(apiKeyID string) string
}

// Service drives the offline terminal sync surface. Every call is made on
// behalf of an already-authenticated API key.
type Service interface {
	Pull(ctx context.Context, key *apikeys.APIKeyDTO) (*PullResult, error)
	Push(ctx context.Context, key *apikeys.APIKeyDTO, batch PushBatch) (*PushResult, error)
}

type service struct {
	cursors  cursorRepository
	cashiers cashierSource
	bins     binSource
	ingester batchIngester
	locker   pushLocker
	cfg      config.SyncConfig
	now      func() time.Time
}

// NewService builds a sync service.
func NewService(cursors cursorRepository, cashierSrc cashierSource, binSrc binSource, ingester batchIngester, locker pushLocker, cfg config.SyncConfig) (Service, error) {
	if cursors == nil {
		return nil, fmt.Errorf("sync cursor repository required")
	}
	if cashierSrc == nil || binSrc == nil {
		return nil, fmt.Errorf("cashier and bin sources required")
	}
	if ingester == nil {
		return nil, fmt.Errorf("transaction ingester required")
	}
	if locker == nil {
		return nil, fmt.Errorf("push locker required")
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 500
	}
	if cfg.CursorMaxSkew <= 0 {
		cfg.CursorMaxSkew = 24 * time.Hour
	}
	return &service{
		cursors:  cursors,
		cashiers: cashierSrc,
		bins:     binSrc,
		ingester: ingester,
		locker:   locker,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// Pull returns the state a terminal needs since its last checkpoint. A
// missing checkpoint, or one older than the configured skew, yields a full
// snapshot so a terminal that was offline too long rebuilds from scratch.
func (s *service) Pull(ctx context.Context, key *apikeys.APIKeyDTO) (*PullResult, error) {
	if key == nil || key.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key")
	}

	serverTime := s.now().UTC()
	cursor, err := s.cursors.Find(ctx, key.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sync cursor")
	}

	full := cursor == nil || serverTime.Sub(cursor.LastPulledAt) > s.cfg.CursorMaxSkew
	result := &PullResult{FullSnapshot: full, ServerTime: serverTime}

	var since time.Time
	if !full {
		since = cursor.LastPulledAt
	}

	changedCashiers, err := s.cashiers.FindChangedSince(ctx, key.StoreID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load changed cashiers")
	}
	result.Cashiers = make([]cashiers.CashierDTO, 0, len(changedCashiers))
	for i := range changedCashiers {
		result.Cashiers = append(result.Cashiers, *cashiers.FromModel(&changedCashiers[i]))
	}

	var changedBins []models.LotteryBin
	if full {
		changedBins, err = s.bins.FindActiveBins(ctx, key.StoreID)
	} else {
		changedBins, err = s.bins.FindChangedSince(ctx, key.StoreID, since)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load changed bins")
	}
	result.Bins = make([]lotterybins.BinDTO, 0, len(changedBins))
	for i := range changedBins {
		result.Bins = append(result.Bins, *lotterybins.FromModel(&changedBins[i]))
	}

	next := &models.SyncCursor{
		APIKeyID:     key.ID,
		StoreID:      key.StoreID,
		LastPulledAt: serverTime,
	}
	if cursor != nil {
		next.LastPushedAt = cursor.LastPushedAt
	}
	if err := s.cursors.Upsert(ctx, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance sync cursor")
	}
	return result, nil
}

// Push absorbs a terminal transaction batch. A short lock keyed on the API
// key serializes pushes so a terminal retrying over a flaky link cannot race
// itself.
func (s *service) Push(ctx context.Context, key *apikeys.APIKeyDTO, batch PushBatch) (*PushResult, error) {
	if key == nil || key.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key")
	}
	if len(batch.Transactions) > s.cfg.MaxBatchSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("batch exceeds %d transactions", s.cfg.MaxBatchSize))
	}

	lockKey := s.locker.SyncLockKey(key.ID.String())
	acquired, err := s.locker.SetNX(ctx, lockKey, 1, pushLockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire push lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "another push for this terminal is in progress")
	}
	defer func() {
		_ = s.locker.Del(ctx, lockKey)
	}()

	ingested, err := s.ingester.Ingest(ctx, key.StoreID, key.ID, batch.Transactions)
	if err != nil {
		return nil, err
	}

	serverTime := s.now().UTC()
	cursor, err := s.cursors.Find(ctx, key.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sync cursor")
	}
	next := &models.SyncCursor{
		APIKeyID:     key.ID,
		StoreID:      key.StoreID,
		LastPushedAt: &serverTime,
	}
	if cursor != nil {
		next.LastPulledAt = cursor.LastPulledAt
	}
	if err := s.cursors.Upsert(ctx, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record push checkpoint")
	}

	return &PushResult{
		Accepted:   ingested.Accepted,
		Duplicates: ingested.Duplicates,
		ServerTime: serverTime,
	}, nil
}
