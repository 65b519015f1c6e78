package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/db/models"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, includePaused bool) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) List(ctx context.Context, includePaused bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx)
	if !includePaused {
		query = query.Where("is_paused = false")
	}
	var products []models.Product
	if err := query.Order("category ASC, name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
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
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
