package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skburgers/backend/pkg/enums"
)

// Addon is a paid extra attached to an order item, captured by value.
type Addon struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CustomerSnapshot freezes the customer data an order was placed with. It
// never follows later edits to the customer's profile.
type CustomerSnapshot struct {
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	Street        string   `json:"street"`
	Number        string   `json:"number"`
	Neighborhood  string   `json:"neighborhood"`
	CEP           string   `json:"cep"`
	Reference     string   `json:"reference,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	PurchaseCount int      `json:"purchase_count,omitempty"`
}

// Order is the central entity: one comanda moving through the kitchen,
// dispatch and delivery lifecycle.
type Order struct {
	ID      uuid.UUID         `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Comanda string            `json:"comanda" gorm:"column:comanda;not null"`
	Status  enums.OrderStatus `json:"status" gorm:"column:status;type:order_status;not null;default:'pending'"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	Subtotal          decimal.Decimal     `json:"subtotal" gorm:"column:subtotal;type:numeric(10,2);not null"`
	DeliveryFee       decimal.Decimal     `json:"delivery_fee" gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	PaymentAdjustment decimal.Decimal     `json:"payment_adjustment" gorm:"column:payment_adjustment;type:numeric(10,2);not null"`
	Total             decimal.Decimal     `json:"total" gorm:"column:total;type:numeric(10,2);not null"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method" gorm:"column:payment_method;type:payment_method;not null"`

	DistanceKM *float64         `json:"distance_km,omitempty" gorm:"column:distance_km"`
	Customer   CustomerSnapshot `json:"customer" gorm:"column:customer;type:jsonb;serializer:json;not null"`

	DriverID   *uuid.UUID `json:"driver_id,omitempty" gorm:"column:driver_id;type:uuid"`
	DriverName *string    `json:"driver_name,omitempty" gorm:"column:driver_name"`

	GPSConfirmed bool `json:"gps_confirmed" gorm:"column:gps_confirmed;not null;default:false"`

	CreatedAt          time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	PreparingStartedAt *time.Time `json:"preparing_started_at,omitempty" gorm:"column:preparing_started_at"`
	ReadyAt            *time.Time `json:"ready_at,omitempty" gorm:"column:ready_at"`
	DeliveryStartedAt  *time.Time `json:"delivery_started_at,omitempty" gorm:"column:delivery_started_at"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty" gorm:"column:delivered_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}
