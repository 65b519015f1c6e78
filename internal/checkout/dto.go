package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/outbox"
)

// ItemInput is one cart line as submitted by the customer menu.
type ItemInput struct {
	ProductID    uuid.UUID      `json:"product_id" validate:"required"`
	Qty          int            `json:"qty" validate:"required,gt=0"`
	IsCombo      bool           `json:"is_combo"`
	Addons       []models.Addon `json:"addons,omitempty" validate:"dive"`
	KitchenNotes []string       `json:"kitchen_notes,omitempty"`
}

// CustomerInput is the delivery contact captured at checkout.
type CustomerInput struct {
	Name         string   `json:"name" validate:"required"`
	Phone        string   `json:"phone" validate:"required"`
	Street       string   `json:"street" validate:"required"`
	Number       string   `json:"number" validate:"required"`
	Neighborhood string   `json:"neighborhood" validate:"required"`
	CEP          string   `json:"cep" validate:"required"`
	Reference    string   `json:"reference,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

// Input is the full checkout submission.
type Input struct {
	Items         []ItemInput         `json:"items" validate:"required,min=1,dive"`
	Customer      CustomerInput       `json:"customer" validate:"required"`
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required"`
	// DistanceKM is the client-side estimate used when no coordinate is
	// available for a server-side measurement.
	DistanceKM *float64 `json:"distance_km,omitempty"`
	Actor      outbox.ActorRef
}

// Result is returned to the customer after the order is accepted.
type Result struct {
	Order      *models.Order `json:"order"`
	DistanceKM float64       `json:"distance_km"`
}

// OrderCreatedEvent is the payload published when checkout accepts an order.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Comanda       string              `json:"comanda"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Total         decimal.Decimal     `json:"total"`
	CustomerName  string              `json:"customer_name"`
	CreatedAt     time.Time           `json:"created_at"`
}
