package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/skburgers/backend/internal/pricing"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

// Card processors and voucher brands take their cut on top of the payment
// adjustment the customer already paid.
var gatewayRates = map[enums.PaymentMethod]decimal.Decimal{
	enums.PaymentMethodPIX:    decimal.Zero,
	enums.PaymentMethodCash:   decimal.Zero,
	enums.PaymentMethodDebit:  decimal.RequireFromString("0.0199"),
	enums.PaymentMethodCredit: decimal.RequireFromString("0.0349"),
	enums.PaymentMethodSodexo: decimal.RequireFromString("0.10"),
	enums.PaymentMethodAlelo:  decimal.RequireFromString("0.10"),
}

// Fixed daily staff costs used by the net estimate.
var (
	motoboyDailyCost  = decimal.RequireFromString("30.00")
	chapeiroDailyCost = decimal.RequireFromString("56.66")
)

// ConfigSource exposes the daily goal.
type ConfigSource interface {
	Current(ctx context.Context) (*models.StoreConfig, error)
}

// DailySummary is the admin finance dashboard payload.
type DailySummary struct {
	Date            string          `json:"date"`
	OrderCount      int             `json:"order_count"`
	Revenue         decimal.Decimal `json:"revenue"`
	AvgTicket       decimal.Decimal `json:"avg_ticket"`
	GatewayFees     decimal.Decimal `json:"gateway_fees"`
	StaffCosts      decimal.Decimal `json:"staff_costs"`
	NetEstimate     decimal.Decimal `json:"net_estimate"`
	DailyGoal       decimal.Decimal `json:"daily_goal"`
	GoalProgressPct decimal.Decimal `json:"goal_progress_pct"`
	ByMethod        map[string]int  `json:"by_method"`
}

// FiscalOrder is one order expanded for the fiscal report, with combo lines
// split into the base item plus the upgrade pseudo-item.
type FiscalOrder struct {
	OrderID       uuid.UUID            `json:"order_id"`
	Comanda       string               `json:"comanda"`
	PaymentMethod enums.PaymentMethod  `json:"payment_method"`
	Lines         []pricing.FiscalLine `json:"lines"`
	Total         decimal.Decimal      `json:"total"`
}

// FiscalReport lists every non-cancelled order of a day in fiscal form.
type FiscalReport struct {
	Date   string        `json:"date"`
	Orders []FiscalOrder `json:"orders"`
}

// Service aggregates order money into the daily finance views.
type Service struct {
	db       *gorm.DB
	storeCfg ConfigSource
	calc     *pricing.Calculator
}

// NewService builds the finance service.
func NewService(db *gorm.DB, storeCfg ConfigSource, calc *pricing.Calculator) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if storeCfg == nil {
		return nil, fmt.Errorf("config source required")
	}
	if calc == nil {
		return nil, fmt.Errorf("calculator required")
	}
	return &Service{db: db, storeCfg: storeCfg, calc: calc}, nil
}

// Daily summarizes all non-cancelled orders created on the given local day.
func (s *Service) Daily(ctx context.Context, day time.Time) (*DailySummary, error) {
	start, end := dayBounds(day)

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Where("status <> ?", enums.OrderStatusCancelled).
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query daily orders")
	}

	cfg, err := s.storeCfg.Current(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store config")
	}

	return summarize(orders, cfg.DailyGoal, start), nil
}

// Fiscal expands each of the day's orders into fiscal lines.
func (s *Service) Fiscal(ctx context.Context, day time.Time) (*FiscalReport, error) {
	start, end := dayBounds(day)

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Where("status <> ?", enums.OrderStatusCancelled).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query fiscal orders")
	}

	return fiscalReport(orders, s.calc, start), nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func summarize(orders []models.Order, dailyGoal decimal.Decimal, start time.Time) *DailySummary {
	summary := &DailySummary{
		Date:       start.Format("2006-01-02"),
		OrderCount: len(orders),
		Revenue:    decimal.Zero,
		DailyGoal:  dailyGoal,
		ByMethod:   make(map[string]int),
	}

	fees := decimal.Zero
	for _, order := range orders {
		summary.Revenue = summary.Revenue.Add(order.Total)
		summary.ByMethod[order.PaymentMethod.String()]++
		if rate, ok := gatewayRates[order.PaymentMethod]; ok && rate.IsPositive() {
			fees = fees.Add(order.Total.Mul(rate))
		}
	}
	summary.Revenue = summary.Revenue.Round(2)
	summary.GatewayFees = fees.Round(2)
	summary.StaffCosts = motoboyDailyCost.Add(chapeiroDailyCost)
	summary.NetEstimate = summary.Revenue.Sub(summary.GatewayFees).Sub(summary.StaffCosts).Round(2)

	if summary.OrderCount > 0 {
		summary.AvgTicket = summary.Revenue.Div(decimal.NewFromInt(int64(summary.OrderCount))).Round(2)
	}
	if dailyGoal.IsPositive() {
		summary.GoalProgressPct = summary.Revenue.Div(dailyGoal).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return summary
}

func fiscalReport(orders []models.Order, calc *pricing.Calculator, start time.Time) *FiscalReport {
	report := &FiscalReport{
		Date:   start.Format("2006-01-02"),
		Orders: make([]FiscalOrder, 0, len(orders)),
	}
	for _, order := range orders {
		lines := make([]pricing.Line, 0, len(order.Items))
		for _, item := range order.Items {
			lines = append(lines, pricing.Line{
				Name:      item.Name,
				Qty:       item.Qty,
				UnitPrice: item.UnitPrice,
				IsCombo:   item.IsCombo,
			})
		}
		report.Orders = append(report.Orders, FiscalOrder{
			OrderID:       order.ID,
			Comanda:       order.Comanda,
			PaymentMethod: order.PaymentMethod,
			Lines:         calc.SplitForFiscal(lines),
			Total:         order.Total,
		})
	}
	return report
}
