package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeLine links a product to one inventory ingredient.
type RecipeLine struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Qty          float64   `json:"qty"`
}

// Product is a catalog entry shown on the customer menu.
type Product struct {
	ID          uuid.UUID        `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `json:"name" gorm:"column:name;not null"`
	Description string           `json:"description,omitempty" gorm:"column:description"`
	Category    string           `json:"category" gorm:"column:category;not null"`
	Price       decimal.Decimal  `json:"price" gorm:"column:price;type:numeric(10,2);not null"`
	ComboPrice  *decimal.Decimal `json:"combo_price,omitempty" gorm:"column:combo_price;type:numeric(10,2)"`
	ImageURL    string           `json:"image_url,omitempty" gorm:"column:image_url"`
	Recipe      []RecipeLine     `json:"recipe,omitempty" gorm:"column:recipe;type:jsonb;serializer:json"`
	IsPaused    bool             `json:"is_paused" gorm:"column:is_paused;not null;default:false"`
	CreatedAt   time.Time        `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}
