package orders

import (
	"fmt"
	"time"

	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

// allowedTransitions is the forward-only lifecycle. Cancellation is handled
// separately: any non-terminal status may cancel.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:          {enums.OrderStatusPreparing},
	enums.OrderStatusPreparing:        {enums.OrderStatusReadyForDelivery},
	enums.OrderStatusReadyForDelivery: {enums.OrderStatusDelivering},
	enums.OrderStatusDelivering:       {enums.OrderStatusDelivered, enums.OrderStatusCompleted},
}

// CanTransition reports whether from -> to is a supported forward transition.
func CanTransition(from, to enums.OrderStatus) bool {
	if to == enums.OrderStatusCancelled {
		return !from.IsTerminal()
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a state-conflict error when from -> to is not
// allowed. Services call this after re-reading the order inside the
// transaction, so two operators racing the same order cannot both win.
func ValidateTransition(from, to enums.OrderStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot transition order from %s to %s", from, to)).WithDetails(map[string]any{
		"current_status":   from,
		"requested_status": to,
	})
}

// timestampColumnFor maps each target status to the column stamped exactly
// once by the transition that produces it.
func timestampColumnFor(to enums.OrderStatus) string {
	switch to {
	case enums.OrderStatusPreparing:
		return "preparing_started_at"
	case enums.OrderStatusReadyForDelivery:
		return "ready_at"
	case enums.OrderStatusDelivering:
		return "delivery_started_at"
	case enums.OrderStatusDelivered:
		return "delivered_at"
	case enums.OrderStatusCompleted:
		return "completed_at"
	case enums.OrderStatusCancelled:
		return "cancelled_at"
	}
	return ""
}

// eventFor maps each target status to the outbox event announcing it.
func eventFor(to enums.OrderStatus) enums.OutboxEventType {
	switch to {
	case enums.OrderStatusPreparing:
		return enums.EventOrderPreparing
	case enums.OrderStatusReadyForDelivery:
		return enums.EventOrderReady
	case enums.OrderStatusDelivering:
		return enums.EventOrderDispatched
	case enums.OrderStatusDelivered:
		return enums.EventOrderDelivered
	case enums.OrderStatusCompleted:
		return enums.EventOrderCompleted
	case enums.OrderStatusCancelled:
		return enums.EventOrderCancelled
	}
	return ""
}

// transitionUpdates builds the column updates for a status change.
func transitionUpdates(to enums.OrderStatus, now time.Time) map[string]any {
	updates := map[string]any{"status": to}
	if column := timestampColumnFor(to); column != "" {
		updates[column] = now
	}
	return updates
}
