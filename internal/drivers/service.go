package drivers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/security"
)

// CreateInput registers a new driver with their access PIN.
type CreateInput struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	PIN   string `json:"pin" validate:"required,len=4,numeric"`
}

// Service manages the driver roster and the PIN login used by the driver app.
type Service struct {
	repo     Repository
	password config.PasswordConfig
}

// NewService builds the drivers service.
func NewService(repo Repository, password config.PasswordConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("drivers repository required")
	}
	return &Service{repo: repo, password: password}, nil
}

// Create registers a driver, hashing the PIN before storage.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Driver, error) {
	hash, err := security.HashPIN(input.PIN, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash driver pin")
	}
	driver := &models.Driver{
		ID:      uuid.New(),
		Name:    input.Name,
		Phone:   input.Phone,
		PINHash: hash,
		Status:  enums.DriverStatusOffline,
	}
	return s.repo.Create(ctx, driver)
}

// List returns the full roster.
func (s *Service) List(ctx context.Context) ([]models.Driver, error) {
	return s.repo.List(ctx)
}

// ListIdle returns drivers available for dispatch.
func (s *Service) ListIdle(ctx context.Context) ([]models.Driver, error) {
	return s.repo.ListByStatus(ctx, enums.DriverStatusIdle)
}

// Authenticate resolves a driver from their PIN. Every driver's hash is
// checked because the login form carries only the PIN.
func (s *Service) Authenticate(ctx context.Context, pin string) (*models.Driver, error) {
	drivers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drivers")
	}
	for i := range drivers {
		ok, err := security.VerifyPIN(pin, drivers[i].PINHash)
		if err != nil {
			continue
		}
		if ok {
			return &drivers[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid pin")
}

// SetStatus flips a driver's availability, e.g. going online at shift start.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status enums.DriverStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid driver status %q", status))
	}
	err := s.repo.Update(ctx, id, map[string]any{"status": status})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
	}
	return err
}

// Find satisfies the order service's driver lookup, joining the caller's
// transaction.
func (s *Service) Find(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Driver, error) {
	return s.repo.WithTx(tx).Find(ctx, id)
}

// UpdateStatus satisfies the order service's availability flip inside its
// transactions.
func (s *Service) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status enums.DriverStatus) error {
	return s.repo.WithTx(tx).Update(ctx, id, map[string]any{"status": status})
}

// ResetPIN replaces a driver's access PIN, e.g. after a forgotten code.
func (s *Service) ResetPIN(ctx context.Context, id uuid.UUID, pin string) error {
	hash, err := security.HashPIN(pin, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash driver pin")
	}
	err = s.repo.Update(ctx, id, map[string]any{"pin_hash": hash})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
	}
	return err
}

// Delete removes a driver from the roster.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
	}
	return err
}
