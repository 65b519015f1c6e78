package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AppendItem(ctx context.Context, item *models.OrderItem) error
	ListKitchenQueue(ctx context.Context) ([]models.Order, error)
	ListByStatus(ctx context.Context, statuses ...enums.OrderStatus) ([]models.Order, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID, statuses ...enums.OrderStatus) ([]models.Order, error)
	CountByDriver(ctx context.Context, driverID uuid.UUID, status enums.OrderStatus) (int64, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
}

// DriverStore is the slice of the drivers repository the order service needs
// when flipping driver availability inside its transactions.
type DriverStore interface {
	Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Driver, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.DriverStatus) error
}

// InventoryDecrementer removes ingredient stock when production starts.
type InventoryDecrementer interface {
	Decrement(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID, qty float64) error
}

// RecipeSource resolves product recipes for the ordered line items.
type RecipeSource interface {
	Recipes(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) (map[uuid.UUID][]models.RecipeLine, error)
}
