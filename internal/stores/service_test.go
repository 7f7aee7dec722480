package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	pkgerrors "github.com/djmax1976/nuvana-backoffice/pkg/errors"
)

type stubStoreRepo struct {
	store   *models.Store
	stores  []models.Store
	err     error
	created *CreateStoreDTO
	updated *models.Store
}

func (r *stubStoreRepo) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.created = &dto
	store := dto.ToModel()
	store.ID = uuid.New()
	return store, nil
}

func (r *stubStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.store, nil
}

func (r *stubStoreRepo) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Store, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.stores, nil
}

func (r *stubStoreRepo) Update(ctx context.Context, store *models.Store) error {
	r.updated = store
	return nil
}

type stubCompanyRepo struct {
	company *models.Company
	err     error
}

func (r *stubCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.company, nil
}

func activeCompany() *models.Company {
	return &models.Company{ID: uuid.New(), Name: "Nuvana Retail", Status: enums.TenantStatusActive}
}

func baseStore(companyID uuid.UUID) *models.Store {
	return &models.Store{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      "Main St",
		Status:    enums.TenantStatusActive,
		Timezone:  "America/New_York",
	}
}

func TestNewServiceRequiresRepos(t *testing.T) {
	if _, err := NewService(nil, &stubCompanyRepo{}); err == nil {
		t.Fatal("expected error without store repo")
	}
	if _, err := NewService(&stubStoreRepo{}, nil); err == nil {
		t.Fatal("expected error without company repo")
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	company := activeCompany()
	repo := &stubStoreRepo{}
	svc, err := NewService(repo, &stubCompanyRepo{company: company})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	registers := 3
	dto, err := svc.Create(context.Background(), company.ID, CreateStoreInput{
		Name:          "  Main St  ",
		RegisterCount: &registers,
		POSVendors:    []string{"verifone"},
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if dto.Name != "Main St" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.RegisterCount != 3 {
		t.Fatalf("expected 3 registers, got %d", dto.RegisterCount)
	}
	if dto.Status != enums.TenantStatusActive {
		t.Fatalf("expected active status, got %s", dto.Status)
	}
	if repo.created == nil || repo.created.CompanyID != company.ID {
		t.Fatal("expected store created under company")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	company := activeCompany()
	svc, _ := NewService(&stubStoreRepo{}, &stubCompanyRepo{company: company})

	if _, err := svc.Create(context.Background(), company.ID, CreateStoreInput{Name: "   "}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	zero := 0
	if _, err := svc.Create(context.Background(), company.ID, CreateStoreInput{Name: "X", RegisterCount: &zero}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero registers, got %v", err)
	}
	if _, err := svc.Create(context.Background(), uuid.Nil, CreateStoreInput{Name: "X"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for nil company, got %v", err)
	}
}

func TestServiceCreateInactiveCompanyConflicts(t *testing.T) {
	company := activeCompany()
	company.Status = enums.TenantStatusInactive
	svc, _ := NewService(&stubStoreRepo{}, &stubCompanyRepo{company: company})

	_, err := svc.Create(context.Background(), company.ID, CreateStoreInput{Name: "X"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceGetByIDScopesToCompany(t *testing.T) {
	company := activeCompany()
	store := baseStore(company.ID)
	svc, _ := NewService(&stubStoreRepo{store: store}, &stubCompanyRepo{company: company})

	dto, err := svc.GetByID(context.Background(), company.ID, store.ID)
	if err != nil {
		t.Fatalf("get store: %v", err)
	}
	if dto.ID != store.ID {
		t.Fatalf("expected id %s got %s", store.ID, dto.ID)
	}

	// a different tenant reads the same store as absent
	_, err = svc.GetByID(context.Background(), uuid.New(), store.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubStoreRepo{err: gorm.ErrRecordNotFound}, &stubCompanyRepo{company: activeCompany()})

	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateMutatesAllowedFields(t *testing.T) {
	company := activeCompany()
	store := baseStore(company.ID)
	repo := &stubStoreRepo{store: store}
	svc, _ := NewService(repo, &stubCompanyRepo{company: company})

	newName := "Oak Ave"
	city := "Springfield"
	registers := 2
	vendors := []string{"gilbarco", "verifone"}
	dto, err := svc.Update(context.Background(), company.ID, store.ID, UpdateStoreInput{
		Name:          &newName,
		City:          &city,
		RegisterCount: &registers,
		POSVendors:    &vendors,
	})
	if err != nil {
		t.Fatalf("update store: %v", err)
	}
	if dto.Name != newName || dto.City == nil || *dto.City != city || dto.RegisterCount != 2 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if len(dto.POSVendors) != 2 {
		t.Fatalf("expected 2 vendors, got %v", dto.POSVendors)
	}
	if repo.updated == nil {
		t.Fatal("expected update persisted")
	}
}

func TestServiceUpdateRejectsBlankName(t *testing.T) {
	company := activeCompany()
	store := baseStore(company.ID)
	svc, _ := NewService(&stubStoreRepo{store: store}, &stubCompanyRepo{company: company})

	blank := " "
	_, err := svc.Update(context.Background(), company.ID, store.ID, UpdateStoreInput{Name: &blank})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceDeactivateIsIdempotent(t *testing.T) {
	company := activeCompany()
	store := baseStore(company.ID)
	repo := &stubStoreRepo{store: store}
	svc, _ := NewService(repo, &stubCompanyRepo{company: company})

	if err := svc.Deactivate(context.Background(), company.ID, store.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if store.Status != enums.TenantStatusInactive {
		t.Fatalf("expected inactive status, got %s", store.Status)
	}

	repo.updated = nil
	if err := svc.Deactivate(context.Background(), company.ID, store.ID); err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
	if repo.updated != nil {
		t.Fatal("expected no write on already-inactive store")
	}
}

func TestServiceListMapsStores(t *testing.T) {
	company := activeCompany()
	repo := &stubStoreRepo{stores: []models.Store{*baseStore(company.ID), *baseStore(company.ID)}}
	svc, _ := NewService(repo, &stubCompanyRepo{company: company})

	dtos, err := svc.List(context.Background(), company.ID)
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(dtos))
	}
}

func TestServiceListDependencyError(t *testing.T) {
	svc, _ := NewService(&stubStoreRepo{err: errors.New("boom")}, &stubCompanyRepo{company: activeCompany()})

	_, err := svc.List(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
