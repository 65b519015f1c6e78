package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfigAddon is a paid extra offered at checkout.
type ConfigAddon struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// StoreConfig is the single operational settings row. Every screen reads it
// through the storeconfig service; changes fan out over the config channel.
type StoreConfig struct {
	ID int `gorm:"column:id;primaryKey"`

	DailyGoal      decimal.Decimal `gorm:"column:daily_goal;type:numeric(10,2);not null;default:400"`
	Open           bool            `gorm:"column:open;not null;default:true"`
	RainMode       bool            `gorm:"column:rain_mode;not null;default:false"`
	OverloadMode   bool            `gorm:"column:overload_mode;not null;default:false"`
	PixKey         string          `gorm:"column:pix_key"`
	WhatsAppNumber string          `gorm:"column:whatsapp_number"`

	AdminPINHash   string `gorm:"column:admin_pin_hash"`
	KitchenPINHash string `gorm:"column:kitchen_pin_hash"`

	DessertOfferPrice decimal.Decimal `gorm:"column:dessert_offer_price;type:numeric(10,2);not null;default:12"`
	DessertSoloPrice  decimal.Decimal `gorm:"column:dessert_solo_price;type:numeric(10,2);not null;default:15"`

	Categories []string      `gorm:"column:categories;type:jsonb;serializer:json"`
	Addons     []ConfigAddon `gorm:"column:addons;type:jsonb;serializer:json"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DefaultCategories is used when the config row carries none.
var DefaultCategories = []string{"BURGERS", "COMBOS", "BEBIDAS", "ACOMPANHAMENTOS"}

// CategoriesOrDefault returns the configured category list with the fallback
// applied.
func (c StoreConfig) CategoriesOrDefault() []string {
	if len(c.Categories) > 0 {
		return c.Categories
	}
	out := make([]string, len(DefaultCategories))
	copy(out, DefaultCategories)
	return out
}
