package companies

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

type companyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
}

// Service exposes tenant administration operations.
type Service interface {
	Create(ctx context.Context, input CreateCompanyInput) (*CompanyDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CompanyDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo companyRepository
}

// NewService builds a company service.
func NewService(repo companyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("company repository required")
	}
	return &service{repo: repo}, nil
}

// CreateCompanyInput captures creation-time tenant data.
type CreateCompanyInput struct {
	Name  string
	Phone *string
	Email *string
}

// UpdateCompanyInput captures the allowed tenant fields for mutation.
type UpdateCompanyInput struct {
	Name  *string
	Phone *string
	Email *string
}

func (s *service) Create(ctx context.Context, input CreateCompanyInput) (*CompanyDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if input.Email != nil && !strings.Contains(*input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	company := &models.Company{
		Name:   name,
		Status: enums.TenantStatusActive,
		Phone:  input.Phone,
		Email:  input.Email,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
	}
	return FromModel(company), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(company), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error) {
	company, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name cannot be empty")
		}
		company.Name = name
	}
	if input.Phone != nil {
		cpy := *input.Phone
		company.Phone = &cpy
	}
	if input.Email != nil {
		if !strings.Contains(*input.Email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		cpy := *input.Email
		company.Email = &cpy
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
	}
	return FromModel(company), nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	company, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if company.Status == enums.TenantStatusInactive {
		return nil
	}
	company.Status = enums.TenantStatusInactive
	if err := s.repo.Update(ctx, company); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate company")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid company id")
	}
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return company, nil
}
