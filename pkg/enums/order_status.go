package enums

import "fmt"

// OrderStatus tracks the delivery lifecycle of a customer order.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusPreparing        OrderStatus = "preparing"
	OrderStatusReadyForDelivery OrderStatus = "ready_for_delivery"
	OrderStatusDelivering       OrderStatus = "delivering"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCompleted        OrderStatus = "completed"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReadyForDelivery,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves this status.
func (o OrderStatus) IsTerminal() bool {
	switch o {
	case OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
