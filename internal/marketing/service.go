package marketing

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/skburgers/backend/internal/notifications"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

const defaultMissingDays = 7

// MissingCustomer is a customer whose last order is older than the cutoff.
type MissingCustomer struct {
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	LastOrderAt  time.Time `json:"last_order_at"`
	DaysSince    int       `json:"days_since"`
	OrderCount   int       `json:"order_count"`
	WhatsAppLink string    `json:"whatsapp_link"`
}

// Service builds the win-back report for the admin marketing screen.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService builds the marketing service.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Service{db: db, now: time.Now}, nil
}

type missingCustomerRow struct {
	Name        string
	Phone       string
	LastOrderAt time.Time
	OrderCount  int
}

// MissingCustomers lists customers who have not ordered for at least the
// given number of days, newest absence first.
func (s *Service) MissingCustomers(ctx context.Context, minDays int) ([]MissingCustomer, error) {
	now := s.now()

	var rows []missingCustomerRow
	err := s.db.WithContext(ctx).
		Table("orders").
		Select(
			"MAX(customer ->> 'name') AS name, " +
				"customer ->> 'phone' AS phone, " +
				"MAX(created_at) AS last_order_at, " +
				"COUNT(*) AS order_count",
		).
		Where("status NOT IN ('cancelled')").
		Group("customer ->> 'phone'").
		Order("last_order_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query missing customers")
	}

	return buildReport(rows, now, cutoffFor(now, minDays)), nil
}

func cutoffFor(now time.Time, minDays int) time.Time {
	if minDays <= 0 {
		minDays = defaultMissingDays
	}
	return now.AddDate(0, 0, -minDays)
}

// buildReport keeps the groups last seen before the cutoff and drops rows
// with no phone to message.
func buildReport(rows []missingCustomerRow, now, cutoff time.Time) []MissingCustomer {
	customers := make([]MissingCustomer, 0, len(rows))
	for _, row := range rows {
		if row.Phone == "" || !row.LastOrderAt.Before(cutoff) {
			continue
		}
		customers = append(customers, MissingCustomer{
			Name:         row.Name,
			Phone:        row.Phone,
			LastOrderAt:  row.LastOrderAt,
			DaysSince:    int(now.Sub(row.LastOrderAt).Hours() / 24),
			OrderCount:   row.OrderCount,
			WhatsAppLink: notifications.WhatsAppLink(row.Phone, notifications.WinBackMessage(row.Name)),
		})
	}
	return customers
}
