package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/pagination"
)

type employeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	FindByStore(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// Service exposes store staff management.
type Service interface {
	Create(ctx context.Context, storeID uuid.UUID, input CreateEmployeeInput) (*EmployeeDTO, error)
	GetByID(ctx context.Context, storeID, employeeID uuid.UUID) (*EmployeeDTO, error)
	List(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*EmployeePage, error)
	Update(ctx context.Context, storeID, employeeID uuid.UUID, input UpdateEmployeeInput) (*EmployeeDTO, error)
	Delete(ctx context.Context, storeID, employeeID uuid.UUID) error
}

type service struct {
	repo employeeRepository
}

// NewService builds an employee service.
func NewService(repo employeeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	return &service{repo: repo}, nil
}

// CreateEmployeeInput captures creation-time staff data.
type CreateEmployeeInput struct {
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	JobTitle  *string
}

// UpdateEmployeeInput captures the allowed staff fields for mutation.
type UpdateEmployeeInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	JobTitle  *string
	IsActive  *bool
}

func (s *service) Create(ctx context.Context, storeID uuid.UUID, input CreateEmployeeInput) (*EmployeeDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if input.Email != nil && !strings.Contains(*input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	employee := &models.Employee{
		StoreID:   storeID,
		FirstName: first,
		LastName:  last,
		Email:     input.Email,
		Phone:     input.Phone,
		JobTitle:  input.JobTitle,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create employee")
	}
	return FromModel(employee), nil
}

func (s *service) GetByID(ctx context.Context, storeID, employeeID uuid.UUID) (*EmployeeDTO, error) {
	employee, err := s.load(ctx, storeID, employeeID)
	if err != nil {
		return nil, err
	}
	return FromModel(employee), nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, params pagination.Params) (*EmployeePage, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	rows, err := s.repo.FindByStore(ctx, storeID, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list employees")
	}

	rows, hasMore := pagination.TrimPage(rows, params.Limit)
	page := &EmployeePage{HasMore: hasMore, Employees: make([]EmployeeDTO, 0, len(rows))}
	for i := range rows {
		page.Employees = append(page.Employees, *FromModel(&rows[i]))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

func (s *service) Update(ctx context.Context, storeID, employeeID uuid.UUID, input UpdateEmployeeInput) (*EmployeeDTO, error) {
	employee, err := s.load(ctx, storeID, employeeID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		first := strings.TrimSpace(*input.FirstName)
		if first == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name cannot be empty")
		}
		employee.FirstName = first
	}
	if input.LastName != nil {
		last := strings.TrimSpace(*input.LastName)
		if last == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name cannot be empty")
		}
		employee.LastName = last
	}
	if input.Email != nil {
		if !strings.Contains(*input.Email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		cpy := *input.Email
		employee.Email = &cpy
	}
	if input.Phone != nil {
		cpy := *input.Phone
		employee.Phone = &cpy
	}
	if input.JobTitle != nil {
		cpy := *input.JobTitle
		employee.JobTitle = &cpy
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update employee")
	}
	return FromModel(employee), nil
}

func (s *service) Delete(ctx context.Context, storeID, employeeID uuid.UUID) error {
	if _, err := s.load(ctx, storeID, employeeID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, employeeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete employee")
	}
	return nil
}

func (s *service) load(ctx context.Context, storeID, employeeID uuid.UUID) (*models.Employee, error) {
	if storeID == uuid.Nil || employeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier")
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	if employee.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}
	return employee, nil
}
