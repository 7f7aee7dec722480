package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
)

type storeRepository interface {
	Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

type companyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// Service exposes store administration operations, all scoped to the
// caller's company.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreateStoreInput) (*StoreDTO, error)
	GetByID(ctx context.Context, companyID, storeID uuid.UUID) (*StoreDTO, error)
	List(ctx context.Context, companyID uuid.UUID) ([]StoreDTO, error)
	Update(ctx context.Context, companyID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Deactivate(ctx context.Context, companyID, storeID uuid.UUID) error
}

type service struct {
	repo      storeRepository
	companies companyRepository
}

// NewService builds a store service with the provided repositories.
func NewService(repo storeRepository, companies companyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if companies == nil {
		return nil, fmt.Errorf("company repository required")
	}
	return &service{repo: repo, companies: companies}, nil
}

// CreateStoreInput captures the data required to open a new store.
type CreateStoreInput struct {
	Name          string
	AddressLine1  *string
	AddressLine2  *string
	City          *string
	State         *string
	PostalCode    *string
	Phone         *string
	Timezone      *string
	RegisterCount *int
	POSVendors    []string
}

// UpdateStoreInput captures the allowed store fields for mutation.
type UpdateStoreInput struct {
	Name          *string
	AddressLine1  *string
	AddressLine2  *string
	City          *string
	State         *string
	PostalCode    *string
	Phone         *string
	Timezone      *string
	RegisterCount *int
	POSVendors    *[]string
	Status        *enums.TenantStatus
}

// load fetches a store and enforces company scoping; a store belonging to
// another tenant reads as absent.
func (s *service) load(ctx context.Context, companyID, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return store, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateStoreInput) (*StoreDTO, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid company id")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if input.RegisterCount != nil && *input.RegisterCount < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "register count must be at least 1")
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if company.Status != enums.TenantStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "company is inactive")
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{
		CompanyID:     companyID,
		Name:          name,
		AddressLine1:  input.AddressLine1,
		AddressLine2:  input.AddressLine2,
		City:          input.City,
		State:         input.State,
		PostalCode:    input.PostalCode,
		Phone:         input.Phone,
		Timezone:      input.Timezone,
		RegisterCount: input.RegisterCount,
		POSVendors:    input.POSVendors,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) GetByID(ctx context.Context, companyID, storeID uuid.UUID) (*StoreDTO, error) {
	store, err := s.load(ctx, companyID, storeID)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID) ([]StoreDTO, error) {
	stores, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	dtos := make([]StoreDTO, 0, len(stores))
	for i := range stores {
		dtos = append(dtos, *FromModel(&stores[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, companyID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.load(ctx, companyID, storeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		store.Name = name
	}
	if input.AddressLine1 != nil {
		store.AddressLine1 = cloneStringPtr(input.AddressLine1)
	}
	if input.AddressLine2 != nil {
		store.AddressLine2 = cloneStringPtr(input.AddressLine2)
	}
	if input.City != nil {
		store.City = cloneStringPtr(input.City)
	}
	if input.State != nil {
		store.State = cloneStringPtr(input.State)
	}
	if input.PostalCode != nil {
		store.PostalCode = cloneStringPtr(input.PostalCode)
	}
	if input.Phone != nil {
		store.Phone = cloneStringPtr(input.Phone)
	}
	if input.Timezone != nil && *input.Timezone != "" {
		store.Timezone = *input.Timezone
	}
	if input.RegisterCount != nil {
		if *input.RegisterCount < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "register count must be at least 1")
		}
		store.RegisterCount = *input.RegisterCount
	}
	if input.POSVendors != nil {
		store.POSVendors = append(store.POSVendors[:0:0], *input.POSVendors...)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store status")
		}
		store.Status = *input.Status
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) Deactivate(ctx context.Context, companyID, storeID uuid.UUID) error {
	store, err := s.load(ctx, companyID, storeID)
	if err != nil {
		return err
	}
	if store.Status == enums.TenantStatusInactive {
		return nil
	}
	store.Status = enums.TenantStatusInactive
	if err := s.repo.Update(ctx, store); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate store")
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
