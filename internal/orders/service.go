package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/geo"
	"github.com/skburgers/backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the lifecycle operations beyond repository reads.
type Service interface {
	StartProduction(ctx context.Context, input TransitionInput) (*models.Order, error)
	MarkReady(ctx context.Context, input TransitionInput) (*models.Order, error)
	BatchDispatch(ctx context.Context, input BatchDispatchInput) ([]models.Order, error)
	CompleteDelivery(ctx context.Context, input CompleteDeliveryInput) (*models.Order, error)
	FreeDriver(ctx context.Context, driverID uuid.UUID, actor outbox.ActorRef) ([]models.Order, error)
	Complete(ctx context.Context, input TransitionInput) (*models.Order, error)
	Cancel(ctx context.Context, input TransitionInput) (*models.Order, error)
	AddExtraItem(ctx context.Context, input ExtraItemInput) (*models.Order, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	drivers   DriverStore
	inventory InventoryDecrementer
	recipes   RecipeSource
	delivery  config.DeliveryConfig
	now       func() time.Time
}

// NewService builds an order lifecycle service with the required dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	ob outboxPublisher,
	drivers DriverStore,
	inventory InventoryDecrementer,
	recipes RecipeSource,
	delivery config.DeliveryConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if drivers == nil {
		return nil, fmt.Errorf("driver store required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory decrementer required")
	}
	if recipes == nil {
		return nil, fmt.Errorf("recipe source required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		outbox:    ob,
		drivers:   drivers,
		inventory: inventory,
		recipes:   recipes,
		delivery:  delivery,
		now:       time.Now,
	}, nil
}

// StartProduction moves a pending order into preparing and, in the same
// transaction, decrements ingredient stock for every recipe-bearing line.
func (s *service) StartProduction(ctx context.Context, input TransitionInput) (*models.Order, error) {
	var updated *models.Order
	err := s.transition(ctx, input, enums.OrderStatusPreparing, func(tx *gorm.DB, order *models.Order) error {
		productIDs := make([]uuid.UUID, 0, len(order.Items))
		for _, item := range order.Items {
			if item.ProductID != nil {
				productIDs = append(productIDs, *item.ProductID)
			}
		}
		if len(productIDs) == 0 {
			return nil
		}

		recipes, err := s.recipes.Recipes(ctx, tx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipes")
		}
		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			for _, line := range recipes[*item.ProductID] {
				qty := line.Qty * float64(item.Qty)
				if err := s.inventory.Decrement(ctx, tx, line.IngredientID, qty); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement ingredient stock")
				}
			}
		}
		return nil
	}, &updated)
	return updated, err
}

// MarkReady moves a preparing order to ready_for_delivery.
func (s *service) MarkReady(ctx context.Context, input TransitionInput) (*models.Order, error) {
	var updated *models.Order
	err := s.transition(ctx, input, enums.OrderStatusReadyForDelivery, nil, &updated)
	return updated, err
}

// BatchDispatch assigns one idle driver to a set of ready orders. Driver busy
// flip, status stamps and delivery-start timestamps commit as one unit.
func (s *service) BatchDispatch(ctx context.Context, input BatchDispatchInput) ([]models.Order, error) {
	if input.DriverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	if len(input.OrderIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order required")
	}

	var dispatched []models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		driver, err := s.drivers.Find(ctx, tx, input.DriverID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
		}
		if driver.Status != enums.DriverStatusIdle {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("driver %s is not idle", driver.Name))
		}

		repo := s.repo.WithTx(tx)
		now := s.now()
		dispatched = dispatched[:0]
		for _, orderID := range input.OrderIDs {
			order, err := repo.Find(ctx, orderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
			}
			if err := ValidateTransition(order.Status, enums.OrderStatusDelivering); err != nil {
				return err
			}

			updates := transitionUpdates(enums.OrderStatusDelivering, now)
			updates["driver_id"] = driver.ID
			updates["driver_name"] = driver.Name
			if err := repo.Update(ctx, order.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}

			order.Status = enums.OrderStatusDelivering
			order.DriverID = &driver.ID
			order.DriverName = &driver.Name
			order.DeliveryStartedAt = &now
			if err := s.emitStatus(ctx, tx, order, input.Actor); err != nil {
				return err
			}
			dispatched = append(dispatched, *order)
		}

		if err := s.drivers.UpdateStatus(ctx, tx, driver.ID, enums.DriverStatusBusy); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark driver busy")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dispatched, nil
}

// CompleteDelivery is the driver confirmation path. When the order carries a
// destination coordinate, the driver must be within the GPS gate radius.
func (s *service) CompleteDelivery(ctx context.Context, input CompleteDeliveryInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.DriverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "driver identity missing")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.Find(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.DriverID == nil || *order.DriverID != input.DriverID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to this driver")
		}
		if err := ValidateTransition(order.Status, enums.OrderStatusDelivered); err != nil {
			return err
		}

		gpsConfirmed, err := s.checkGPSGate(order, input.Position)
		if err != nil {
			return err
		}

		now := s.now()
		updates := transitionUpdates(enums.OrderStatusDelivered, now)
		updates["gps_confirmed"] = gpsConfirmed
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		order.Status = enums.OrderStatusDelivered
		order.DeliveredAt = &now
		order.GPSConfirmed = gpsConfirmed
		if err := s.emitStatus(ctx, tx, order, input.Actor); err != nil {
			return err
		}

		// Last outstanding delivery frees the driver automatically.
		remaining, err := repo.CountByDriver(ctx, input.DriverID, enums.OrderStatusDelivering)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count outstanding deliveries")
		}
		if remaining == 0 {
			if err := s.drivers.UpdateStatus(ctx, tx, input.DriverID, enums.DriverStatusIdle); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "free driver")
			}
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FreeDriver is the operator route-complete action: every delivering order
// assigned to the driver becomes delivered and the driver returns to idle.
func (s *service) FreeDriver(ctx context.Context, driverID uuid.UUID, actor outbox.ActorRef) ([]models.Order, error) {
	if driverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}

	var freed []models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		driver, err := s.drivers.Find(ctx, tx, driverID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
		}

		repo := s.repo.WithTx(tx)
		outstanding, err := repo.ListByDriver(ctx, driverID, enums.OrderStatusDelivering)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list outstanding deliveries")
		}

		now := s.now()
		freed = freed[:0]
		for i := range outstanding {
			order := &outstanding[i]
			updates := transitionUpdates(enums.OrderStatusDelivered, now)
			if err := repo.Update(ctx, order.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
			order.Status = enums.OrderStatusDelivered
			order.DeliveredAt = &now
			if err := s.emitStatus(ctx, tx, order, actor); err != nil {
				return err
			}
			freed = append(freed, *order)
		}

		if err := s.drivers.UpdateStatus(ctx, tx, driver.ID, enums.DriverStatusIdle); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "free driver")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return freed, nil
}

// Complete is the administrative finalize path from delivering.
func (s *service) Complete(ctx context.Context, input TransitionInput) (*models.Order, error) {
	var updated *models.Order
	err := s.transition(ctx, input, enums.OrderStatusCompleted, nil, &updated)
	return updated, err
}

// Cancel moves any non-terminal order to cancelled.
func (s *service) Cancel(ctx context.Context, input TransitionInput) (*models.Order, error) {
	var updated *models.Order
	err := s.transition(ctx, input, enums.OrderStatusCancelled, nil, &updated)
	return updated, err
}

// AddExtraItem appends a driver-sold line onto a delivering order and adds
// its value to the order total.
func (s *service) AddExtraItem(ctx context.Context, input ExtraItemInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.Find(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusDelivering {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "extras can only be added while delivering")
		}
		if order.DriverID == nil || *order.DriverID != input.DriverID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to this driver")
		}

		item := models.OrderItem{
			OrderID:   order.ID,
			Position:  len(order.Items) + 1,
			Name:      input.Name,
			Qty:       input.Qty,
			UnitPrice: input.UnitPrice,
			IsExtra:   true,
		}
		if err := repo.AppendItem(ctx, &item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append extra item")
		}

		value := input.UnitPrice.Mul(decimalFromInt(input.Qty))
		newTotal := order.Total.Add(value)
		if err := repo.Update(ctx, order.ID, map[string]any{"total": newTotal}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order total")
		}

		order.Total = newTotal
		order.Items = append(order.Items, item)
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderItemAppended,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &input.Actor,
			Data: ExtraItemEvent{
				OrderID:  order.ID,
				Comanda:  order.Comanda,
				Name:     input.Name,
				Qty:      input.Qty,
				Value:    value,
				NewTotal: newTotal,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit outbox event")
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// transition is the shared single-order path: re-read inside the tx, check
// the predecessor status, stamp, run the side effect, emit the event.
func (s *service) transition(
	ctx context.Context,
	input TransitionInput,
	target enums.OrderStatus,
	sideEffect func(tx *gorm.DB, order *models.Order) error,
	out **models.Order,
) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.Find(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if err := ValidateTransition(order.Status, target); err != nil {
			return err
		}

		if sideEffect != nil {
			if err := sideEffect(tx, order); err != nil {
				return err
			}
		}

		now := s.now()
		updates := transitionUpdates(target, now)
		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		order.Status = target
		stampOrder(order, target, now)
		if err := s.emitStatus(ctx, tx, order, input.Actor); err != nil {
			return err
		}

		*out = order
		return nil
	})
}

func (s *service) checkGPSGate(order *models.Order, position *geo.Point) (bool, error) {
	if order.Customer.Lat == nil || order.Customer.Lng == nil {
		// No destination coordinate stored, completion proceeds unchecked.
		return false, nil
	}
	if position == nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "driver position required for gps confirmation")
	}

	destination := geo.Point{Lat: *order.Customer.Lat, Lng: *order.Customer.Lng}
	distance := geo.DistanceKM(*position, destination)
	if distance > s.delivery.GPSGateKM {
		return false, pkgerrors.New(pkgerrors.CodeStateConflict, "too far from the delivery address").WithDetails(map[string]any{
			"remaining_km": distance,
			"max_km":       s.delivery.GPSGateKM,
		})
	}
	return true, nil
}

func (s *service) emitStatus(ctx context.Context, tx *gorm.DB, order *models.Order, actor outbox.ActorRef) error {
	event := outbox.DomainEvent{
		EventType:     eventFor(order.Status),
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &actor,
		Data: OrderStatusEvent{
			OrderID:       order.ID,
			Comanda:       order.Comanda,
			Status:        order.Status,
			DriverID:      order.DriverID,
			DriverName:    order.DriverName,
			Total:         order.Total,
			CustomerPhone: order.Customer.Phone,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit outbox event")
	}
	return nil
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

func stampOrder(order *models.Order, target enums.OrderStatus, now time.Time) {
	switch target {
	case enums.OrderStatusPreparing:
		order.PreparingStartedAt = &now
	case enums.OrderStatusReadyForDelivery:
		order.ReadyAt = &now
	case enums.OrderStatusDelivering:
		order.DeliveryStartedAt = &now
	case enums.OrderStatusDelivered:
		order.DeliveredAt = &now
	case enums.OrderStatusCompleted:
		order.CompletedAt = &now
	case enums.OrderStatusCancelled:
		order.CancelledAt = &now
	}
}
