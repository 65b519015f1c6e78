package controllers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skburgers/backend/pkg/db/models"
)

func TestGroupRoutesFoldsOrdersPerDriver(t *testing.T) {
	marcosID := uuid.New()
	paulaID := uuid.New()
	marcos := "Marcos"
	paula := "Paula"

	orders := []models.Order{
		{ID: uuid.New(), Comanda: "101", DriverID: &marcosID, DriverName: &marcos},
		{ID: uuid.New(), Comanda: "102", DriverID: &paulaID, DriverName: &paula},
		{ID: uuid.New(), Comanda: "103", DriverID: &marcosID, DriverName: &marcos},
		{ID: uuid.New(), Comanda: "104"}, // no driver assigned yet
	}

	routes := groupRoutes(orders)
	require.Len(t, routes, 2)

	assert.Equal(t, marcosID, routes[0].DriverID)
	assert.Equal(t, "Marcos", routes[0].DriverName)
	require.Len(t, routes[0].Orders, 2)
	assert.Equal(t, "101", routes[0].Orders[0].Comanda)
	assert.Equal(t, "103", routes[0].Orders[1].Comanda)

	assert.Equal(t, paulaID, routes[1].DriverID)
	require.Len(t, routes[1].Orders, 1)
	assert.Equal(t, "102", routes[1].Orders[0].Comanda)
}

func TestGroupRoutesEmpty(t *testing.T) {
	routes := groupRoutes(nil)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
}
