package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/geo"
	"github.com/skburgers/backend/pkg/outbox"
)

// ListFilters describe the inputs supported by the admin orders list.
type ListFilters struct {
	Status   *enums.OrderStatus
	DriverID *uuid.UUID
	Phone    string
	DateFrom *time.Time
	DateTo   *time.Time
}

// OrderList wraps paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Lateness buckets for the kitchen display.
const (
	LatenessOK       = "ok"
	LatenessLate     = "late"
	LatenessCritical = "critical"
)

// QueueEntry is one kitchen display card: the order plus its lateness flag.
type QueueEntry struct {
	Order    models.Order `json:"order"`
	Lateness string       `json:"lateness"`
	WaitingM int          `json:"waiting_minutes"`
}

// LatenessFor buckets an order by elapsed time since the relevant timestamp:
// production start for preparing orders, creation for everything else.
func LatenessFor(order models.Order, now time.Time, cfg config.DeliveryConfig) (string, int) {
	since := order.CreatedAt
	if order.Status == enums.OrderStatusPreparing && order.PreparingStartedAt != nil {
		since = *order.PreparingStartedAt
	}
	elapsed := now.Sub(since)
	switch {
	case elapsed >= cfg.CriticalAfter:
		return LatenessCritical, int(elapsed.Minutes())
	case elapsed >= cfg.LateAfter:
		return LatenessLate, int(elapsed.Minutes())
	default:
		return LatenessOK, int(elapsed.Minutes())
	}
}

// TransitionInput identifies the order and the acting session for a simple
// single-order status change.
type TransitionInput struct {
	OrderID uuid.UUID
	Actor   outbox.ActorRef
}

// BatchDispatchInput carries one driver and the set of ready orders assigned
// to them in a single atomic batch.
type BatchDispatchInput struct {
	DriverID uuid.UUID
	OrderIDs []uuid.UUID
	Actor    outbox.ActorRef
}

// CompleteDeliveryInput carries the driver's live position for the GPS gate.
type CompleteDeliveryInput struct {
	OrderID  uuid.UUID
	DriverID uuid.UUID
	Position *geo.Point
	Actor    outbox.ActorRef
}

// ExtraItemInput appends a driver-sold extra onto an in-flight order.
type ExtraItemInput struct {
	OrderID   uuid.UUID
	DriverID  uuid.UUID
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
	Actor     outbox.ActorRef
}

// OrderStatusEvent is the payload published on every lifecycle transition.
// CustomerPhone lets consumers build notification links without a DB read.
type OrderStatusEvent struct {
	OrderID       uuid.UUID         `json:"order_id"`
	Comanda       string            `json:"comanda"`
	Status        enums.OrderStatus `json:"status"`
	DriverID      *uuid.UUID        `json:"driver_id,omitempty"`
	DriverName    *string           `json:"driver_name,omitempty"`
	Total         decimal.Decimal   `json:"total"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
}

// ExtraItemEvent is published when a driver appends an extra to an order.
type ExtraItemEvent struct {
	OrderID  uuid.UUID       `json:"order_id"`
	Comanda  string          `json:"comanda"`
	Name     string          `json:"name"`
	Qty      int             `json:"qty"`
	Value    decimal.Decimal `json:"value"`
	NewTotal decimal.Decimal `json:"new_total"`
}
