package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
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

func (r *repository) AppendItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListKitchenQueue returns pending and preparing orders, preparing first so
// started orders are advanced before new ones, FIFO within each tier.
func (r *repository) ListKitchenQueue(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("status IN ?", []enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusPreparing}).
		Order("CASE WHEN status = 'preparing' THEN 0 ELSE 1 END, created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListByStatus(ctx context.Context, statuses ...enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListByDriver(ctx context.Context, driverID uuid.UUID, statuses ...enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("driver_id = ?", driverID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Order("delivery_started_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) CountByDriver(ctx context.Context, driverID uuid.UUID, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("driver_id = ? AND status = ?", driverID, status).
		Count(&count).Error
	return count, err
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DriverID != nil {
		query = query.Where("driver_id = ?", *filters.DriverID)
	}
	if filters.Phone != "" {
		query = query.Where("customer ->> 'phone' = ?", filters.Phone)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at < ?", *filters.DateTo)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, fmt.Errorf("parse cursor: %w", err)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &OrderList{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	list.Orders = rows
	return list, nil
}
