package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem tracks one ingredient's stock. Quantity is system-tracked and
// decremented when an order enters production; PhysicalCount is an optional
// operator-entered audit figure.
type InventoryItem struct {
	ID            uuid.UUID       `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `json:"name" gorm:"column:name;not null"`
	Unit          string          `json:"unit" gorm:"column:unit;not null;default:'un'"`
	Quantity      float64         `json:"quantity" gorm:"column:quantity;not null;default:0"`
	MinQuantity   float64         `json:"min_quantity" gorm:"column:min_quantity;not null;default:0"`
	PhysicalCount *float64        `json:"physical_count,omitempty" gorm:"column:physical_count"`
	UnitCost      decimal.Decimal `json:"unit_cost" gorm:"column:unit_cost;type:numeric(10,2);not null;default:0"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// IsLow reports whether stock sits at or under the configured minimum.
func (i InventoryItem) IsLow() bool {
	return i.Quantity <= i.MinQuantity
}
