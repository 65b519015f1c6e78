package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/skburgers/backend/internal/orders"
	"github.com/skburgers/backend/pkg/enums"
)

func TestStatusNotificationLink(t *testing.T) {
	driver := "Marcos"
	data := orders.OrderStatusEvent{
		OrderID:       uuid.New(),
		Comanda:       "4821",
		Status:        enums.OrderStatusPreparing,
		Total:         decimal.RequireFromString("57.50"),
		DriverName:    &driver,
		CustomerPhone: "92988887777",
	}

	link := statusNotificationLink(enums.EventOrderPreparing, data)
	assert.Contains(t, link, "https://wa.me/5592988887777")
	assert.Contains(t, link, "4821")

	link = statusNotificationLink(enums.EventOrderDispatched, data)
	assert.Contains(t, link, "https://wa.me/5592988887777")
	assert.Contains(t, link, "Marcos")
}

func TestStatusNotificationLinkSkipsOtherEvents(t *testing.T) {
	data := orders.OrderStatusEvent{Comanda: "4821", CustomerPhone: "92988887777"}

	assert.Empty(t, statusNotificationLink(enums.EventOrderReady, data))
	assert.Empty(t, statusNotificationLink(enums.EventOrderCancelled, data))
}

func TestStatusNotificationLinkRequiresPhone(t *testing.T) {
	data := orders.OrderStatusEvent{Comanda: "4821"}

	assert.Empty(t, statusNotificationLink(enums.EventOrderPreparing, data))
}
