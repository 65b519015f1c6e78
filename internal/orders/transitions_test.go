package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

func TestCanTransitionForwardPath(t *testing.T) {
	path := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPreparing,
		enums.OrderStatusReadyForDelivery,
		enums.OrderStatusDelivering,
		enums.OrderStatusDelivered,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransition(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
	}
	assert.True(t, CanTransition(enums.OrderStatusDelivering, enums.OrderStatusCompleted))
}

func TestCanTransitionRejectsBackwards(t *testing.T) {
	assert.False(t, CanTransition(enums.OrderStatusDelivering, enums.OrderStatusPending))
	assert.False(t, CanTransition(enums.OrderStatusDelivering, enums.OrderStatusPreparing))
	assert.False(t, CanTransition(enums.OrderStatusReadyForDelivery, enums.OrderStatusPreparing))
	assert.False(t, CanTransition(enums.OrderStatusDelivered, enums.OrderStatusDelivering))
	assert.False(t, CanTransition(enums.OrderStatusPending, enums.OrderStatusReadyForDelivery))
}

func TestCanTransitionCancellation(t *testing.T) {
	nonTerminal := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPreparing,
		enums.OrderStatusReadyForDelivery,
		enums.OrderStatusDelivering,
	}
	for _, from := range nonTerminal {
		assert.True(t, CanTransition(from, enums.OrderStatusCancelled), "%s should be cancellable", from)
	}

	terminal := []enums.OrderStatus{
		enums.OrderStatusDelivered,
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
	}
	for _, from := range terminal {
		assert.False(t, CanTransition(from, enums.OrderStatusCancelled), "%s should not be cancellable", from)
	}
}

func TestValidateTransitionReturnsStateConflict(t *testing.T) {
	err := ValidateTransition(enums.OrderStatusDelivering, enums.OrderStatusPending)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	require.NoError(t, ValidateTransition(enums.OrderStatusPending, enums.OrderStatusPreparing))
}

func TestTransitionUpdatesStampsTimestamp(t *testing.T) {
	now := time.Now()

	updates := transitionUpdates(enums.OrderStatusPreparing, now)
	assert.Equal(t, enums.OrderStatusPreparing, updates["status"])
	assert.Equal(t, now, updates["preparing_started_at"])

	updates = transitionUpdates(enums.OrderStatusDelivered, now)
	assert.Equal(t, now, updates["delivered_at"])

	updates = transitionUpdates(enums.OrderStatusCancelled, now)
	assert.Equal(t, now, updates["cancelled_at"])
}

func TestEventForCoversEveryTransitionTarget(t *testing.T) {
	targets := []enums.OrderStatus{
		enums.OrderStatusPreparing,
		enums.OrderStatusReadyForDelivery,
		enums.OrderStatusDelivering,
		enums.OrderStatusDelivered,
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
	}
	for _, target := range targets {
		assert.NotEmpty(t, eventFor(target), "missing event for %s", target)
	}
}
