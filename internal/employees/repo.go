package employees

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/djmax1976/nuvana-backoffice/pkg/db/models"
	"github.com/djmax1976/nuvana-backoffice/pkg/pagination"
)

// Repository handles employee persistence. Soft-deleted rows stay in the
// table with deleted_at set and are excluded from every query here.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to employee operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("deleted_at IS NULL")
}

// Create persists a new employee row.
func (r *Repository) Create(ctx context.Context, employee *models.Employee) error {
	if employee == nil {
		return fmt.Errorf("employee is required")
	}
	return r.db.WithContext(ctx).Create(employee).Error
}

// FindByID loads a live employee by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.scoped(ctx).
		Where("id = ?", id).
		First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByStore returns one buffered page of live employees for a store,
// newest first, keyed on (created_at, id).
func (r *Repository) FindByStore(ctx context.Context, storeID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Employee, error) {
	query := r.scoped(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// Update saves the provided employee.
func (r *Repository) Update(ctx context.Context, employee *models.Employee) error {
	if employee == nil {
		return fmt.Errorf("employee is required")
	}
	return r.db.WithContext(ctx).Save(employee).Error
}

// SoftDelete stamps deleted_at and flips the active flag.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"is_active":  false,
		}).Error
}
