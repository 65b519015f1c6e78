package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/db/models"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

// InventoryCoster resolves ingredient unit costs for CMV estimates.
type InventoryCoster interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
}

// ProductCost is the estimated ingredient cost breakdown for one product.
type ProductCost struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CMV       decimal.Decimal `json:"cmv"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}

// Service exposes catalog management on top of the repository.
type Service struct {
	repo      Repository
	inventory InventoryCoster
}

// NewService builds the catalog service.
func NewService(repo Repository, inventory InventoryCoster) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory coster required")
	}
	return &Service{repo: repo, inventory: inventory}, nil
}

// Menu lists what customers can order right now.
func (s *Service) Menu(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx, false)
}

// ListAll includes paused products for the admin screen.
func (s *Service) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx, true)
}

// FindByIDs satisfies the checkout service's product lookup.
func (s *Service) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// Recipes satisfies the order service's production-start lookup, joining the
// caller's transaction.
func (s *Service) Recipes(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) (map[uuid.UUID][]models.RecipeLine, error) {
	products, err := s.repo.WithTx(tx).FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	recipes := make(map[uuid.UUID][]models.RecipeLine, len(products))
	for _, product := range products {
		if len(product.Recipe) > 0 {
			recipes[product.ID] = product.Recipe
		}
	}
	return recipes, nil
}

// SetPaused flips customer visibility for a product.
func (s *Service) SetPaused(ctx context.Context, id uuid.UUID, paused bool) error {
	err := s.repo.Update(ctx, id, map[string]any{"is_paused": paused})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return err
}

// EstimateCosts computes each product's estimated ingredient cost (CMV) from
// its recipe and current inventory unit costs.
func (s *Service) EstimateCosts(ctx context.Context) ([]ProductCost, error) {
	products, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, err
	}
	costByID := make(map[uuid.UUID]decimal.Decimal, len(items))
	for _, item := range items {
		costByID[item.ID] = item.UnitCost
	}

	costs := make([]ProductCost, 0, len(products))
	for _, product := range products {
		cmv := decimal.Zero
		for _, line := range product.Recipe {
			unitCost, ok := costByID[line.IngredientID]
			if !ok {
				continue
			}
			cmv = cmv.Add(unitCost.Mul(decimal.NewFromFloat(line.Qty)))
		}
		cmv = cmv.Round(2)

		margin := decimal.Zero
		if product.Price.IsPositive() {
			margin = product.Price.Sub(cmv).Div(product.Price).Mul(decimal.NewFromInt(100)).Round(1)
		}
		costs = append(costs, ProductCost{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			CMV:       cmv,
			MarginPct: margin,
		})
	}
	return costs, nil
}
