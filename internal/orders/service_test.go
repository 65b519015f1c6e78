package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/geo"
	"github.com/skburgers/backend/pkg/outbox"
	"github.com/skburgers/backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeRepo(orders ...*models.Order) *fakeRepo {
	repo := &fakeRepo{orders: make(map[uuid.UUID]*models.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeRepo) Find(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	order, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "status":
			order.Status = value.(enums.OrderStatus)
		case "preparing_started_at":
			t := value.(time.Time)
			order.PreparingStartedAt = &t
		case "ready_at":
			t := value.(time.Time)
			order.ReadyAt = &t
		case "delivery_started_at":
			t := value.(time.Time)
			order.DeliveryStartedAt = &t
		case "delivered_at":
			t := value.(time.Time)
			order.DeliveredAt = &t
		case "completed_at":
			t := value.(time.Time)
			order.CompletedAt = &t
		case "cancelled_at":
			t := value.(time.Time)
			order.CancelledAt = &t
		case "driver_id":
			id := value.(uuid.UUID)
			order.DriverID = &id
		case "driver_name":
			name := value.(string)
			order.DriverName = &name
		case "gps_confirmed":
			order.GPSConfirmed = value.(bool)
		case "total":
			order.Total = value.(decimal.Decimal)
		}
	}
	return nil
}

func (f *fakeRepo) AppendItem(ctx context.Context, item *models.OrderItem) error {
	order, ok := f.orders[item.OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Items = append(order.Items, *item)
	return nil
}

func (f *fakeRepo) ListKitchenQueue(ctx context.Context) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeRepo) ListByStatus(ctx context.Context, statuses ...enums.OrderStatus) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeRepo) ListByDriver(ctx context.Context, driverID uuid.UUID, statuses ...enums.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.DriverID == nil || *order.DriverID != driverID {
			continue
		}
		for _, status := range statuses {
			if order.Status == status {
				out = append(out, *order)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByDriver(ctx context.Context, driverID uuid.UUID, status enums.OrderStatus) (int64, error) {
	var count int64
	for _, order := range f.orders {
		if order.DriverID != nil && *order.DriverID == driverID && order.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

type fakeDrivers struct {
	drivers map[uuid.UUID]*models.Driver
}

func newFakeDrivers(drivers ...*models.Driver) *fakeDrivers {
	f := &fakeDrivers{drivers: make(map[uuid.UUID]*models.Driver)}
	for _, driver := range drivers {
		f.drivers[driver.ID] = driver
	}
	return f
}

func (f *fakeDrivers) Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Driver, error) {
	driver, ok := f.drivers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *driver
	return &clone, nil
}

func (f *fakeDrivers) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.DriverStatus) error {
	driver, ok := f.drivers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	driver.Status = status
	return nil
}

type fakeInventory struct {
	decrements map[uuid.UUID]float64
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{decrements: make(map[uuid.UUID]float64)}
}

func (f *fakeInventory) Decrement(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID, qty float64) error {
	f.decrements[ingredientID] += qty
	return nil
}

type fakeRecipes struct {
	recipes map[uuid.UUID][]models.RecipeLine
}

func (f *fakeRecipes) Recipes(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) (map[uuid.UUID][]models.RecipeLine, error) {
	return f.recipes, nil
}

type fixtures struct {
	service   Service
	repo      *fakeRepo
	drivers   *fakeDrivers
	inventory *fakeInventory
	outbox    *fakeOutbox
}

func newFixtures(t *testing.T, recipes map[uuid.UUID][]models.RecipeLine, orders []*models.Order, drivers []*models.Driver) fixtures {
	t.Helper()
	repo := newFakeRepo(orders...)
	driverStore := newFakeDrivers(drivers...)
	inventory := newFakeInventory()
	ob := &fakeOutbox{}
	if recipes == nil {
		recipes = map[uuid.UUID][]models.RecipeLine{}
	}
	svc, err := NewService(repo, stubTxRunner{}, ob, driverStore, inventory, &fakeRecipes{recipes: recipes},
		config.DeliveryConfig{MaxRadiusKM: 5.5, GPSGateKM: 0.5})
	require.NoError(t, err)
	return fixtures{service: svc, repo: repo, drivers: driverStore, inventory: inventory, outbox: ob}
}

func pendingOrder(productID *uuid.UUID, qty int) *models.Order {
	orderID := uuid.New()
	return &models.Order{
		ID:      orderID,
		Comanda: "1234",
		Status:  enums.OrderStatusPending,
		Total:   decimal.RequireFromString("54.50"),
		Items: []models.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: productID, Position: 1, Name: "X-Burger", Qty: qty, UnitPrice: decimal.RequireFromString("20.00")},
		},
	}
}

func TestStartProductionDecrementsInventory(t *testing.T) {
	productID := uuid.New()
	bunID := uuid.New()
	pattyID := uuid.New()
	order := pendingOrder(&productID, 2)

	fx := newFixtures(t, map[uuid.UUID][]models.RecipeLine{
		productID: {
			{IngredientID: bunID, Qty: 1},
			{IngredientID: pattyID, Qty: 1},
		},
	}, []*models.Order{order}, nil)

	updated, err := fx.service.StartProduction(context.Background(), TransitionInput{OrderID: order.ID})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPreparing, updated.Status)
	assert.NotNil(t, updated.PreparingStartedAt)
	assert.Equal(t, float64(2), fx.inventory.decrements[bunID])
	assert.Equal(t, float64(2), fx.inventory.decrements[pattyID])

	require.Len(t, fx.outbox.events, 1)
	assert.Equal(t, enums.EventOrderPreparing, fx.outbox.events[0].EventType)
}

func TestStartProductionWithoutRecipesLeavesInventoryUntouched(t *testing.T) {
	order := pendingOrder(nil, 1)
	fx := newFixtures(t, nil, []*models.Order{order}, nil)

	_, err := fx.service.StartProduction(context.Background(), TransitionInput{OrderID: order.ID})
	require.NoError(t, err)
	assert.Empty(t, fx.inventory.decrements)
}

func TestStartProductionRejectsWrongStatus(t *testing.T) {
	order := pendingOrder(nil, 1)
	order.Status = enums.OrderStatusDelivering
	fx := newFixtures(t, nil, []*models.Order{order}, nil)

	_, err := fx.service.StartProduction(context.Background(), TransitionInput{OrderID: order.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Empty(t, fx.outbox.events)
}

func TestMarkReady(t *testing.T) {
	order := pendingOrder(nil, 1)
	order.Status = enums.OrderStatusPreparing
	fx := newFixtures(t, nil, []*models.Order{order}, nil)

	updated, err := fx.service.MarkReady(context.Background(), TransitionInput{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusReadyForDelivery, updated.Status)
	assert.NotNil(t, updated.ReadyAt)
}

func TestBatchDispatch(t *testing.T) {
	orderA := pendingOrder(nil, 1)
	orderA.Status = enums.OrderStatusReadyForDelivery
	orderB := pendingOrder(nil, 1)
	orderB.Status = enums.OrderStatusReadyForDelivery
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusIdle}

	fx := newFixtures(t, nil, []*models.Order{orderA, orderB}, []*models.Driver{driver})

	dispatched, err := fx.service.BatchDispatch(context.Background(), BatchDispatchInput{
		DriverID: driver.ID,
		OrderIDs: []uuid.UUID{orderA.ID, orderB.ID},
	})
	require.NoError(t, err)
	require.Len(t, dispatched, 2)

	for _, order := range dispatched {
		assert.Equal(t, enums.OrderStatusDelivering, order.Status)
		require.NotNil(t, order.DriverID)
		assert.Equal(t, driver.ID, *order.DriverID)
		assert.Equal(t, "Carlos", *order.DriverName)
		assert.NotNil(t, order.DeliveryStartedAt)
	}
	assert.Equal(t, enums.DriverStatusBusy, fx.drivers.drivers[driver.ID].Status)
	assert.Len(t, fx.outbox.events, 2)
}

func TestBatchDispatchRejectsBusyDriver(t *testing.T) {
	order := pendingOrder(nil, 1)
	order.Status = enums.OrderStatusReadyForDelivery
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusBusy}
	fx := newFixtures(t, nil, []*models.Order{order}, []*models.Driver{driver})

	_, err := fx.service.BatchDispatch(context.Background(), BatchDispatchInput{
		DriverID: driver.ID,
		OrderIDs: []uuid.UUID{order.ID},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestBatchDispatchRejectsNonReadyOrder(t *testing.T) {
	order := pendingOrder(nil, 1)
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusIdle}
	fx := newFixtures(t, nil, []*models.Order{order}, []*models.Driver{driver})

	_, err := fx.service.BatchDispatch(context.Background(), BatchDispatchInput{
		DriverID: driver.ID,
		OrderIDs: []uuid.UUID{order.ID},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func deliveringOrder(driver *models.Driver, lat, lng *float64) *models.Order {
	order := pendingOrder(nil, 1)
	order.Status = enums.OrderStatusDelivering
	order.DriverID = &driver.ID
	order.DriverName = &driver.Name
	order.Customer = models.CustomerSnapshot{Name: "Ana", Phone: "92999990000", Lat: lat, Lng: lng}
	return order
}

func TestCompleteDeliveryWithinGPSGate(t *testing.T) {
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusBusy}
	lat, lng := -3.043274, -59.963131
	order := deliveringOrder(driver, &lat, &lng)
	fx := newFixtures(t, nil, []*models.Order{order}, []*models.Driver{driver})

	updated, err := fx.service.CompleteDelivery(context.Background(), CompleteDeliveryInput{
		OrderID:  order.ID,
		DriverID: driver.ID,
		Position: &geo.Point{Lat: -3.0434, Lng: -59.9632},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, updated.Status)
	assert.True(t, updated.GPSConfirmed)
	assert.NotNil(t, updated.DeliveredAt)

	// Last outstanding delivery frees the driver.
	assert.Equal(t, enums.DriverStatusIdle, fx.drivers.drivers[driver.ID].Status)
}

func TestCompleteDeliveryRefusedBeyondGate(t *testing.T) {
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusBusy}
	lat, lng := -3.043274, -59.963131
	order := deliveringOrder(driver, &lat, &lng)
	fx := newFixtures(t, nil, []*models.Order{order}, []*models.Driver{driver})

	_, err := fx.service.CompleteDelivery(context.Background(), CompleteDeliveryInput{
		OrderID:  order.ID,
		DriverID: driver.ID,
		Position: &geo.Point{Lat: -3.06, Lng: -59.99},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Equal(t, enums.OrderStatusDelivering, fx.repo.orders[order.ID].Status)
}

func TestCompleteDeliveryWithoutDestinationSkipsGate(t *testing.T) {
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusBusy}
	order := deliveringOrder(driver, nil, nil)
	fx := newFixtures(t, nil, []*models.Order{order}, []*models.Driver{driver})

	updated, err := fx.service.CompleteDelivery(context.Background(), CompleteDeliveryInput{
		OrderID:  order.ID,
		DriverID: driver.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, updated.Status)
	assert.False(t, updated.GPSConfirmed)
}

func TestCompleteDeliveryRejectsWrongDriver(t *testing.T) {
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusBusy}
	order := deliveringOrder(driver, nil, nil)
	fx := newFixtures(t, nil, []*models.Order{order}, []*models.Driver{driver})

	_, err := fx.service.CompleteDelivery(context.Background(), CompleteDeliveryInput{
		OrderID:  order.ID,
		DriverID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestFreeDriverDeliversAllOutstanding(t *testing.T) {
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusBusy}
	orderA := deliveringOrder(driver, nil, nil)
	orderB := deliveringOrder(driver, nil, nil)
	fx := newFixtures(t, nil, []*models.Order{orderA, orderB}, []*models.Driver{driver})

	freed, err := fx.service.FreeDriver(context.Background(), driver.ID, outbox.ActorRef{Role: enums.ActorRoleAdmin})
	require.NoError(t, err)
	assert.Len(t, freed, 2)
	assert.Equal(t, enums.DriverStatusIdle, fx.drivers.drivers[driver.ID].Status)
	assert.Equal(t, enums.OrderStatusDelivered, fx.repo.orders[orderA.ID].Status)
	assert.Equal(t, enums.OrderStatusDelivered, fx.repo.orders[orderB.ID].Status)
}

func TestCancelRejectsTerminalOrder(t *testing.T) {
	order := pendingOrder(nil, 1)
	order.Status = enums.OrderStatusDelivered
	fx := newFixtures(t, nil, []*models.Order{order}, nil)

	_, err := fx.service.Cancel(context.Background(), TransitionInput{OrderID: order.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestCancelNonTerminalOrder(t *testing.T) {
	order := pendingOrder(nil, 1)
	order.Status = enums.OrderStatusReadyForDelivery
	fx := newFixtures(t, nil, []*models.Order{order}, nil)

	updated, err := fx.service.Cancel(context.Background(), TransitionInput{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, updated.Status)
	assert.NotNil(t, updated.CancelledAt)
}

func TestAddExtraItemRaisesTotal(t *testing.T) {
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusBusy}
	order := deliveringOrder(driver, nil, nil)
	fx := newFixtures(t, nil, []*models.Order{order}, []*models.Driver{driver})

	updated, err := fx.service.AddExtraItem(context.Background(), ExtraItemInput{
		OrderID:   order.ID,
		DriverID:  driver.ID,
		Name:      "Coca Lata",
		Qty:       2,
		UnitPrice: decimal.RequireFromString("6.00"),
	})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("66.50")), "total %s", updated.Total)
	require.Len(t, updated.Items, 2)
	assert.True(t, updated.Items[1].IsExtra)

	require.Len(t, fx.outbox.events, 1)
	assert.Equal(t, enums.EventOrderItemAppended, fx.outbox.events[0].EventType)
}

func TestAddExtraItemRequiresDelivering(t *testing.T) {
	driver := &models.Driver{ID: uuid.New(), Name: "Carlos", Status: enums.DriverStatusBusy}
	order := deliveringOrder(driver, nil, nil)
	order.Status = enums.OrderStatusReadyForDelivery
	fx := newFixtures(t, nil, []*models.Order{order}, []*models.Driver{driver})

	_, err := fx.service.AddExtraItem(context.Background(), ExtraItemInput{
		OrderID:   order.ID,
		DriverID:  driver.ID,
		Name:      "Coca Lata",
		Qty:       1,
		UnitPrice: decimal.RequireFromString("6.00"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}
