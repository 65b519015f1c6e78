package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/db/models"
)

// Repository defines persistence operations for ingredient stock.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Find(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context) ([]models.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Decrement(ctx context.Context, id uuid.UUID, qty float64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
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
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Decrement subtracts stock in a single statement so concurrent production
// starts cannot lose updates.
func (r *repository) Decrement(ctx context.Context, id uuid.UUID, qty float64) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
