package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/skburgers/backend/pkg/enums"
)

// Driver is a motoboy who takes dispatched routes.
type Driver struct {
	ID        uuid.UUID          `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `json:"name" gorm:"column:name;not null"`
	Phone     string             `json:"phone,omitempty" gorm:"column:phone"`
	PINHash   string             `json:"-" gorm:"column:pin_hash;not null"`
	Status    enums.DriverStatus `json:"status" gorm:"column:status;type:driver_status;not null;default:'offline'"`
	CreatedAt time.Time          `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}
