package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/db/models"
)

// Service wraps the repository with the order-production hook and the
// low-stock view the admin screen renders.
type Service struct {
	repo Repository
}

// NewService builds the inventory service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &Service{repo: repo}, nil
}

// Decrement satisfies the order service's production-start hook, joining the
// caller's transaction.
func (s *Service) Decrement(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID, qty float64) error {
	return s.repo.WithTx(tx).Decrement(ctx, ingredientID, qty)
}

// ListLow returns items at or below their minimum threshold.
func (s *Service) ListLow(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]models.InventoryItem, 0)
	for _, item := range items {
		if item.IsLow() {
			low = append(low, item)
		}
	}
	return low, nil
}
