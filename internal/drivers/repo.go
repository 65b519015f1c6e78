package drivers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
)

// Repository defines persistence operations for the driver roster.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	ListByStatus(ctx context.Context, status enums.DriverStatus) ([]models.Driver, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a drivers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	if err := r.db.WithContext(ctx).Create(driver).Error; err != nil {
		return nil, err
	}
	return driver, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&driver).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *repository) List(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.DriverStatus) ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("name ASC").
		Find(&drivers).Error
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Driver{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Driver{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
