package cashiers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"github.com/djmax1976/nuvana-backoffice/pkg/db"
	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/security"
)

type cashierRepository interface {
	Create(ctx context.Context, cashier *models.Cashier) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cashier, error)
	FindByStoreAndCode(ctx context.Context, storeID uuid.UUID, code string) (*models.Cashier, error)
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.Cashier, error)
	Update(ctx context.Context, cashier *models.Cashier) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	CodeInUse(ctx context.Context, storeID uuid.UUID, code string) (bool, error)
}

// Service manages POS operators and the terminal PIN check.
type Service interface {
	Create(ctx context.Context, storeID uuid.UUID, input CreateCashierInput) (*CashierDTO, error)
	GetByID(ctx context.Context, storeID, cashierID uuid.UUID) (*CashierDTO, error)
	List(ctx context.Context, storeID uuid.UUID) ([]CashierDTO, error)
	Update(ctx context.Context, storeID, cashierID uuid.UUID, input UpdateCashierInput) (*CashierDTO, error)
	SetStatus(ctx context.Context, storeID, cashierID uuid.UUID, status enums.CashierStatus) (*CashierDTO, error)
	VerifyPIN(ctx context.Context, storeID uuid.UUID, code, pin string) (*CashierDTO, error)
}

type service struct {
	repo   cashierRepository
	pinCfg config.PinConfig
}

// NewService builds a cashier service.
func NewService(repo cashierRepository, pinCfg config.PinConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cashier repository required")
	}
	return &service{repo: repo, pinCfg: pinCfg}, nil
}

// CreateCashierInput captures creation-time operator data. The PIN is
// hashed immediately and discarded.
type CreateCashierInput struct {
	DisplayName string
	CashierCode string
	Pin         string
	EmployeeID  *uuid.UUID
}

// UpdateCashierInput captures the allowed operator fields for mutation.
type UpdateCashierInput struct {
	DisplayName *string
	EmployeeID  *uuid.UUID
	Pin         *string
}

func (s *service) Create(ctx context.Context, storeID uuid.UUID, input CreateCashierInput) (*CashierDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}
	code := strings.TrimSpace(input.CashierCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashier code is required")
	}
	if err := security.ValidatePin(input.Pin, s.pinCfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pin")
	}

	taken, err := s.repo.CodeInUse(ctx, storeID, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check cashier code")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cashier code already in use")
	}

	hash, err := security.HashPin(input.Pin, s.pinCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
	}

	cashier := &models.Cashier{
		StoreID:     storeID,
		EmployeeID:  input.EmployeeID,
		DisplayName: name,
		CashierCode: code,
		PinHash:     hash,
		Status:      enums.CashierStatusActive,
	}
	if err := s.repo.Create(ctx, cashier); err != nil {
		// Concurrent create can slip past the CodeInUse check and land on
		// the (store_id, cashier_code) unique constraint instead.
		if db.IsUniqueViolation(err, "cashier_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cashier code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cashier")
	}
	return FromModel(cashier), nil
}

func (s *service) GetByID(ctx context.Context, storeID, cashierID uuid.UUID) (*CashierDTO, error) {
	cashier, err := s.load(ctx, storeID, cashierID)
	if err != nil {
		return nil, err
	}
	return FromModel(cashier), nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID) ([]CashierDTO, error) {
	cashiers, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cashiers")
	}
	dtos := make([]CashierDTO, 0, len(cashiers))
	for i := range cashiers {
		dtos = append(dtos, *FromModel(&cashiers[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, storeID, cashierID uuid.UUID, input UpdateCashierInput) (*CashierDTO, error) {
	cashier, err := s.load(ctx, storeID, cashierID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name cannot be empty")
		}
		cashier.DisplayName = name
	}
	if input.EmployeeID != nil {
		cpy := *input.EmployeeID
		cashier.EmployeeID = &cpy
	}
	if input.Pin != nil {
		if err := security.ValidatePin(*input.Pin, s.pinCfg); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pin")
		}
		hash, err := security.HashPin(*input.Pin, s.pinCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
		}
		cashier.PinHash = hash
	}

	if err := s.repo.Update(ctx, cashier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cashier")
	}
	return FromModel(cashier), nil
}

// SetStatus drives the active/suspended/terminated machine. Termination is
// final: a terminated cashier cannot move back to any other status.
func (s *service) SetStatus(ctx context.Context, storeID, cashierID uuid.UUID, status enums.CashierStatus) (*CashierDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cashier status")
	}
	cashier, err := s.load(ctx, storeID, cashierID)
	if err != nil {
		return nil, err
	}

	if cashier.Status == enums.CashierStatusTerminated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cashier is terminated")
	}
	if cashier.Status == status {
		return FromModel(cashier), nil
	}

	cashier.Status = status
	if status == enums.CashierStatusTerminated {
		now := time.Now().UTC()
		cashier.TerminatedAt = &now
	}
	if err := s.repo.Update(ctx, cashier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cashier status")
	}
	return FromModel(cashier), nil
}

// VerifyPIN authenticates a terminal operator. Lookup failures and wrong
// PINs return the same unauthorized error so the terminal cannot probe for
// valid codes.
func (s *service) VerifyPIN(ctx context.Context, storeID uuid.UUID, code, pin string) (*CashierDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}
	code = strings.TrimSpace(code)
	if code == "" || pin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashier code and pin are required")
	}

	cashier, err := s.repo.FindByStoreAndCode(ctx, storeID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid cashier credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cashier")
	}
	if !cashier.Status.CanLogin() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid cashier credentials")
	}
	if !security.VerifyPin(pin, cashier.PinHash) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid cashier credentials")
	}

	if err := s.repo.TouchLastLogin(ctx, cashier.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch last login")
	}
	return FromModel(cashier), nil
}

func (s *service) load(ctx context.Context, storeID, cashierID uuid.UUID) (*models.Cashier, error) {
	if storeID == uuid.Nil || cashierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier")
	}
	cashier, err := s.repo.FindByID(ctx, cashierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cashier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cashier")
	}
	if cashier.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cashier not found")
	}
	return cashier, nil
}
