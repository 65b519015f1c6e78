package checkout

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/skburgers/backend/internal/pricing"
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

// OrderCreator is the slice of the orders repository checkout writes through.
type OrderCreator interface {
	WithTx(tx *gorm.DB) OrderCreator
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
}

// ProductSource resolves the catalog rows referenced by the cart.
type ProductSource interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// ConfigSource exposes the current store settings.
type ConfigSource interface {
	Current(ctx context.Context) (*models.StoreConfig, error)
}

// Service accepts customer orders.
type Service interface {
	Submit(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	orders     OrderCreator
	products   ProductSource
	storeCfg   ConfigSource
	calculator *pricing.Calculator
	tx         txRunner
	outbox     outboxPublisher
	store      config.StoreConfig
}

// NewService builds the checkout service.
func NewService(
	orders OrderCreator,
	products ProductSource,
	storeCfg ConfigSource,
	calculator *pricing.Calculator,
	tx txRunner,
	ob outboxPublisher,
	store config.StoreConfig,
) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if storeCfg == nil {
		return nil, fmt.Errorf("config source required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		orders:     orders,
		products:   products,
		storeCfg:   storeCfg,
		calculator: calculator,
		tx:         tx,
		outbox:     ob,
		store:      store,
	}, nil
}

// Submit validates the cart, prices it server-side and persists the order
// together with its creation event.
func (s *service) Submit(ctx context.Context, input Input) (*Result, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}

	cfg, err := s.storeCfg.Current(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store config")
	}
	if !cfg.Open || cfg.OverloadMode {
		return nil, pkgerrors.New(pkgerrors.CodeStoreClosed, "store is not accepting orders right now")
	}

	distanceKM, err := s.resolveDistance(input)
	if err != nil {
		return nil, err
	}

	items, lines, err := s.priceItems(ctx, input.Items, cfg)
	if err != nil {
		return nil, err
	}

	quote, err := s.calculator.Quote(lines, distanceKM, input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:      uuid.New(),
		Comanda: newComanda(),
		Status:  enums.OrderStatusPending,
		Items:   items,

		Subtotal:          quote.Subtotal,
		DeliveryFee:       quote.DeliveryFee,
		PaymentAdjustment: quote.PaymentAdjustment,
		Total:             quote.Total,
		PaymentMethod:     input.PaymentMethod,

		DistanceKM: &distanceKM,
		Customer: models.CustomerSnapshot{
			Name:         input.Customer.Name,
			Phone:        input.Customer.Phone,
			Street:       input.Customer.Street,
			Number:       input.Customer.Number,
			Neighborhood: input.Customer.Neighborhood,
			CEP:          input.Customer.CEP,
			Reference:    input.Customer.Reference,
			Lat:          input.Customer.Lat,
			Lng:          input.Customer.Lng,
		},
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &input.Actor,
			Data: OrderCreatedEvent{
				OrderID:       order.ID,
				Comanda:       order.Comanda,
				PaymentMethod: order.PaymentMethod,
				Subtotal:      order.Subtotal,
				DeliveryFee:   order.DeliveryFee,
				Total:         order.Total,
				CustomerName:  order.Customer.Name,
				CreatedAt:     order.CreatedAt,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit outbox event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{Order: order, DistanceKM: distanceKM}, nil
}

// resolveDistance prefers a server-side haversine measurement from the store
// to the customer coordinate; the client estimate is the fallback.
func (s *service) resolveDistance(input Input) (float64, error) {
	if input.Customer.Lat != nil && input.Customer.Lng != nil {
		store := geo.Point{Lat: s.store.Lat, Lng: s.store.Lng}
		customer := geo.Point{Lat: *input.Customer.Lat, Lng: *input.Customer.Lng}
		return geo.DistanceKM(store, customer), nil
	}
	if input.DistanceKM != nil {
		return *input.DistanceKM, nil
	}
	return 0, pkgerrors.New(pkgerrors.CodeValidation, "either a coordinate or a distance estimate is required")
}

// priceItems rebuilds each line's unit price from the catalog so client-side
// tampering cannot change what is charged.
func (s *service) priceItems(ctx context.Context, inputs []ItemInput, cfg *models.StoreConfig) ([]models.OrderItem, []pricing.Line, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, item := range inputs {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	addonPrices := make(map[string]decimal.Decimal, len(cfg.Addons))
	for _, addon := range cfg.Addons {
		addonPrices[addon.Name] = addon.Price
	}

	items := make([]models.OrderItem, 0, len(inputs))
	lines := make([]pricing.Line, 0, len(inputs))
	for i, item := range inputs {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
		}
		if product.IsPaused {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q is unavailable", product.Name))
		}

		unitPrice := product.Price
		addons := make([]models.Addon, 0, len(item.Addons))
		for _, addon := range item.Addons {
			price, ok := addonPrices[addon.Name]
			if !ok {
				return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown addon %q", addon.Name))
			}
			unitPrice = unitPrice.Add(price)
			addons = append(addons, models.Addon{Name: addon.Name, Price: price})
		}
		if item.IsCombo {
			unitPrice = unitPrice.Add(s.calculator.ComboUpgrade())
		}

		productID := product.ID
		items = append(items, models.OrderItem{
			ID:           uuid.New(),
			ProductID:    &productID,
			Position:     i + 1,
			Name:         product.Name,
			Qty:          item.Qty,
			UnitPrice:    unitPrice,
			Addons:       addons,
			KitchenNotes: item.KitchenNotes,
			IsCombo:      item.IsCombo,
		})
		lines = append(lines, pricing.Line{
			Name:      product.Name,
			Qty:       item.Qty,
			UnitPrice: unitPrice,
			IsCombo:   item.IsCombo,
		})
	}
	return items, lines, nil
}

// newComanda generates the 4-digit ticket shown on kitchen cards.
func newComanda() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "0000"
	}
	return fmt.Sprintf("%04d", n.Int64())
}
