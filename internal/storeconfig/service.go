package storeconfig

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/outbox"
	"github.com/skburgers/backend/pkg/security"
)

const singletonID = 1

// configAggregateID is the fixed outbox aggregate id for the singleton row.
var configAggregateID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("store_config"))

type changeNotifier interface {
	PublishConfigChanged(ctx context.Context, payload string) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ChangeEvent is the payload of the config.changed outbox event.
type ChangeEvent struct {
	Fields []string `json:"fields"`
}

// UpdateInput carries the admin settings form. Nil fields are untouched.
type UpdateInput struct {
	DailyGoal         *decimal.Decimal     `json:"daily_goal,omitempty"`
	Open              *bool                `json:"open,omitempty"`
	RainMode          *bool                `json:"rain_mode,omitempty"`
	OverloadMode      *bool                `json:"overload_mode,omitempty"`
	PixKey            *string              `json:"pix_key,omitempty"`
	WhatsAppNumber    *string              `json:"whatsapp_number,omitempty"`
	AdminPIN          *string              `json:"admin_pin,omitempty" validate:"omitempty,len=4,numeric"`
	KitchenPIN        *string              `json:"kitchen_pin,omitempty" validate:"omitempty,len=4,numeric"`
	DessertOfferPrice *decimal.Decimal     `json:"dessert_offer_price,omitempty"`
	DessertSoloPrice  *decimal.Decimal     `json:"dessert_solo_price,omitempty"`
	Categories        []string             `json:"categories,omitempty"`
	Addons            []models.ConfigAddon `json:"addons,omitempty"`
}

// Service is the single source of truth for the operational settings row.
type Service struct {
	db       *gorm.DB
	notifier changeNotifier
	emitter  eventEmitter
	access   config.AccessConfig
	password config.PasswordConfig
	logg     *logger.Logger
}

// NewService builds the store config service.
func NewService(db *gorm.DB, notifier changeNotifier, emitter eventEmitter, access config.AccessConfig, password config.PasswordConfig, logg *logger.Logger) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &Service{db: db, notifier: notifier, emitter: emitter, access: access, password: password, logg: logg}, nil
}

// Current loads the settings row.
func (s *Service) Current(ctx context.Context) (*models.StoreConfig, error) {
	var cfg models.StoreConfig
	if err := s.db.WithContext(ctx).Where("id = ?", singletonID).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Update applies the changed fields and fans the change out to subscribed
// screens.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*models.StoreConfig, error) {
	updates := map[string]any{}
	if input.DailyGoal != nil {
		updates["daily_goal"] = *input.DailyGoal
	}
	if input.Open != nil {
		updates["open"] = *input.Open
	}
	if input.RainMode != nil {
		updates["rain_mode"] = *input.RainMode
	}
	if input.OverloadMode != nil {
		updates["overload_mode"] = *input.OverloadMode
	}
	if input.PixKey != nil {
		updates["pix_key"] = *input.PixKey
	}
	if input.WhatsAppNumber != nil {
		updates["whatsapp_number"] = *input.WhatsAppNumber
	}
	if input.AdminPIN != nil {
		hash, err := security.HashPIN(*input.AdminPIN, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin pin")
		}
		updates["admin_pin_hash"] = hash
	}
	if input.KitchenPIN != nil {
		hash, err := security.HashPIN(*input.KitchenPIN, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash kitchen pin")
		}
		updates["kitchen_pin_hash"] = hash
	}
	if input.DessertOfferPrice != nil {
		updates["dessert_offer_price"] = *input.DessertOfferPrice
	}
	if input.DessertSoloPrice != nil {
		updates["dessert_solo_price"] = *input.DessertSoloPrice
	}
	if input.Categories != nil {
		updates["categories"] = input.Categories
	}
	if input.Addons != nil {
		updates["addons"] = input.Addons
	}
	if len(updates) == 0 {
		return s.Current(ctx)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.StoreConfig{}).
			Where("id = ?", singletonID).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		return s.emitter.Emit(ctx, tx, changeEvent(updates))
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store config")
	}

	cfg, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	// Immediate fan-out to open screens. The worker re-broadcasts from the
	// outbox event, so a lost publish here is recovered.
	if err := s.notifier.PublishConfigChanged(ctx, "store_config"); err != nil && s.logg != nil {
		s.logg.Error(ctx, "publish config change notification", err)
	}
	return cfg, nil
}

// changeEvent names the updated columns so consumers can tell what moved.
func changeEvent(updates map[string]any) outbox.DomainEvent {
	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return outbox.DomainEvent{
		EventType:     enums.EventConfigChanged,
		AggregateType: enums.AggregateStoreConfig,
		AggregateID:   configAggregateID,
		Data:          ChangeEvent{Fields: fields},
	}
}

// VerifyAccess checks a staff PIN for the requested role. The master PIN is
// honored by every gate.
func (s *Service) VerifyAccess(ctx context.Context, role enums.ActorRole, pin string) error {
	if pin == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "pin required")
	}
	if s.access.MasterPIN != "" &&
		subtle.ConstantTimeCompare([]byte(pin), []byte(s.access.MasterPIN)) == 1 {
		return nil
	}

	cfg, err := s.Current(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store config")
	}

	var hash string
	switch role {
	case enums.ActorRoleAdmin:
		hash = cfg.AdminPINHash
	case enums.ActorRoleKitchen:
		hash = cfg.KitchenPINHash
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("role %q has no pin gate", role))
	}
	if hash == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no pin configured for role")
	}

	ok, err := security.VerifyPIN(pin, hash)
	if err != nil || !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid pin")
	}
	return nil
}
