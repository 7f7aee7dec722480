package employees

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
	"github.com/djmax1976/nuvana-backoffice/pkg/pagination"
)

type stubEmployeeRepo struct {
	employee *models.Employee
	rows     []models.Employee
	err      error
	deleted  []uuid.UUID
	updated  *models.Employee
}

func (r *stubEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	if r.err != nil {
		return r.err
	}
	employee.ID = uuid.New()
	return nil
}

func (r *stubEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.employee, nil
}

func (r *stubEmployeeRepo) FindByStore(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	buffered := pagination.LimitWithBuffer(limit)
	if len(r.rows) > buffered {
		return r.rows[:buffered], nil
	}
	return r.rows, nil
}

func (r *stubEmployeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	r.updated = employee
	return nil
}

func (r *stubEmployeeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func baseEmployee(storeID uuid.UUID) *models.Employee {
	return &models.Employee{
		ID:        uuid.New(),
		StoreID:   storeID,
		FirstName: "Dana",
		LastName:  "Reyes",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

func TestServiceCreateEmployee(t *testing.T) {
	storeID := uuid.New()
	svc, err := NewService(&stubEmployeeRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), storeID, CreateEmployeeInput{
		FirstName: " Dana ",
		LastName:  " Reyes ",
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if dto.FirstName != "Dana" || dto.LastName != "Reyes" {
		t.Fatalf("expected trimmed names, got %q %q", dto.FirstName, dto.LastName)
	}
	if !dto.IsActive {
		t.Fatal("expected new employee active")
	}
}

func TestServiceCreateEmployeeValidation(t *testing.T) {
	svc, _ := NewService(&stubEmployeeRepo{})

	if _, err := svc.Create(context.Background(), uuid.New(), CreateEmployeeInput{FirstName: "", LastName: "X"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	bad := "nope"
	if _, err := svc.Create(context.Background(), uuid.New(), CreateEmployeeInput{FirstName: "A", LastName: "B", Email: &bad}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}
	if _, err := svc.Create(context.Background(), uuid.Nil, CreateEmployeeInput{FirstName: "A", LastName: "B"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for nil store, got %v", err)
	}
}

func TestServiceGetByIDScopesToStore(t *testing.T) {
	storeID := uuid.New()
	employee := baseEmployee(storeID)
	svc, _ := NewService(&stubEmployeeRepo{employee: employee})

	dto, err := svc.GetByID(context.Background(), storeID, employee.ID)
	if err != nil {
		t.Fatalf("get employee: %v", err)
	}
	if dto.ID != employee.ID {
		t.Fatalf("expected id %s got %s", employee.ID, dto.ID)
	}

	_, err = svc.GetByID(context.Background(), uuid.New(), employee.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for foreign store, got %v", err)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubEmployeeRepo{err: gorm.ErrRecordNotFound})

	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceListPaginates(t *testing.T) {
	storeID := uuid.New()
	rows := make([]models.Employee, 0, 4)
	for i := 0; i < 4; i++ {
		rows = append(rows, *baseEmployee(storeID))
	}
	svc, _ := NewService(&stubEmployeeRepo{rows: rows})

	page, err := svc.List(context.Background(), storeID, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("list employees: %v", err)
	}
	if len(page.Employees) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(page.Employees))
	}
	if !page.HasMore || page.NextCursor == "" {
		t.Fatalf("expected further page with cursor, got %+v", page)
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil || cursor == nil {
		t.Fatalf("expected parseable cursor, got %v", err)
	}
	if cursor.ID != page.Employees[2].ID {
		t.Fatal("expected cursor keyed on last returned row")
	}
}

func TestServiceListRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(&stubEmployeeRepo{})

	_, err := svc.List(context.Background(), uuid.New(), pagination.Params{Cursor: "%%%"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}
}

func TestServiceUpdateEmployee(t *testing.T) {
	storeID := uuid.New()
	employee := baseEmployee(storeID)
	repo := &stubEmployeeRepo{employee: employee}
	svc, _ := NewService(repo)

	title := "Shift Lead"
	inactive := false
	dto, err := svc.Update(context.Background(), storeID, employee.ID, UpdateEmployeeInput{
		JobTitle: &title,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update employee: %v", err)
	}
	if dto.JobTitle == nil || *dto.JobTitle != title {
		t.Fatalf("expected job title %q, got %v", title, dto.JobTitle)
	}
	if dto.IsActive {
		t.Fatal("expected employee inactive")
	}
	if repo.updated == nil {
		t.Fatal("expected update persisted")
	}
}

func TestServiceDeleteEmployee(t *testing.T) {
	storeID := uuid.New()
	employee := baseEmployee(storeID)
	repo := &stubEmployeeRepo{employee: employee}
	svc, _ := NewService(repo)

	if err := svc.Delete(context.Background(), storeID, employee.ID); err != nil {
		t.Fatalf("delete employee: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != employee.ID {
		t.Fatalf("expected soft delete of %s, got %v", employee.ID, repo.deleted)
	}
}
