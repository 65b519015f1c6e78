package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem captures the snapshot of each line within an order. Unit price is
// fixed at order time and already includes addon cost and any combo
// surcharge.
type OrderItem struct {
	ID        uuid.UUID  `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID  `json:"order_id" gorm:"column:order_id;type:uuid;not null"`
	ProductID *uuid.UUID `json:"product_id,omitempty" gorm:"column:product_id;type:uuid"`
	Position  int        `json:"position" gorm:"column:position;not null"`

	Name      string          `json:"name" gorm:"column:name;not null"`
	Qty       int             `json:"qty" gorm:"column:qty;not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"column:unit_price;type:numeric(10,2);not null"`

	Addons       []Addon  `json:"addons,omitempty" gorm:"column:addons;type:jsonb;serializer:json"`
	KitchenNotes []string `json:"kitchen_notes,omitempty" gorm:"column:kitchen_notes;type:jsonb;serializer:json"`

	IsCombo bool `json:"is_combo" gorm:"column:is_combo;not null;default:false"`
	// IsExtra marks items appended by the driver after dispatch.
	IsExtra bool `json:"is_extra" gorm:"column:is_extra;not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}
