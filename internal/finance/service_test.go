package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skburgers/backend/internal/pricing"
	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func dayOrder(method enums.PaymentMethod, total string) models.Order {
	return models.Order{
		ID:            uuid.New(),
		PaymentMethod: method,
		Total:         dec(total),
	}
}

func TestSummarizeFeesAndNet(t *testing.T) {
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		dayOrder(enums.PaymentMethodPIX, "100.00"),
		dayOrder(enums.PaymentMethodCredit, "200.00"),
		dayOrder(enums.PaymentMethodDebit, "50.00"),
		dayOrder(enums.PaymentMethodSodexo, "30.00"),
	}

	summary := summarize(orders, dec("400.00"), start)

	assert.Equal(t, "2026-08-31", summary.Date)
	assert.Equal(t, 4, summary.OrderCount)
	assert.True(t, summary.Revenue.Equal(dec("380.00")), "revenue %s", summary.Revenue)
	// 200*3.49% + 50*1.99% + 30*10% = 6.98 + 0.995 + 3.00
	assert.True(t, summary.GatewayFees.Equal(dec("10.98")), "fees %s", summary.GatewayFees)
	assert.True(t, summary.StaffCosts.Equal(dec("86.66")), "staff %s", summary.StaffCosts)
	assert.True(t, summary.NetEstimate.Equal(dec("282.36")), "net %s", summary.NetEstimate)
	assert.True(t, summary.AvgTicket.Equal(dec("95.00")), "ticket %s", summary.AvgTicket)
	assert.True(t, summary.GoalProgressPct.Equal(dec("95.0")), "progress %s", summary.GoalProgressPct)
	assert.Equal(t, map[string]int{"PIX": 1, "CREDIT": 1, "DEBIT": 1, "SODEXO": 1}, summary.ByMethod)
}

func TestSummarizeGatewayRates(t *testing.T) {
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		method enums.PaymentMethod
		fees   string
	}{
		{enums.PaymentMethodPIX, "0"},
		{enums.PaymentMethodCash, "0"},
		{enums.PaymentMethodDebit, "1.99"},
		{enums.PaymentMethodCredit, "3.49"},
		{enums.PaymentMethodSodexo, "10.00"},
		{enums.PaymentMethodAlelo, "10.00"},
	}
	for _, tc := range cases {
		t.Run(string(tc.method), func(t *testing.T) {
			summary := summarize([]models.Order{dayOrder(tc.method, "100.00")}, decimal.Zero, start)
			assert.True(t, summary.GatewayFees.Equal(dec(tc.fees)),
				"expected %s, got %s", tc.fees, summary.GatewayFees)
		})
	}
}

func TestSummarizeEmptyDay(t *testing.T) {
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	summary := summarize(nil, dec("400.00"), start)

	assert.Equal(t, 0, summary.OrderCount)
	assert.True(t, summary.Revenue.IsZero())
	assert.True(t, summary.AvgTicket.IsZero())
	assert.True(t, summary.NetEstimate.Equal(dec("-86.66")), "net %s", summary.NetEstimate)
	assert.True(t, summary.GoalProgressPct.IsZero())
}

func TestFiscalReportSplitsCombos(t *testing.T) {
	calc := pricing.NewCalculator(config.PricingConfig{}, config.DeliveryConfig{MaxRadiusKM: 5.5})
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	order := models.Order{
		ID:            uuid.New(),
		Comanda:       "4821",
		PaymentMethod: enums.PaymentMethodPIX,
		Total:         dec("59.00"),
		Items: []models.OrderItem{
			{Name: "X-Burger", Qty: 1, UnitPrice: dec("32.00"), IsCombo: true},
			{Name: "Batata", Qty: 2, UnitPrice: dec("11.00")},
		},
	}

	report := fiscalReport([]models.Order{order}, calc, start)

	assert.Equal(t, "2026-08-31", report.Date)
	require.Len(t, report.Orders, 1)
	assert.Equal(t, "4821", report.Orders[0].Comanda)

	lines := report.Orders[0].Lines
	require.Len(t, lines, 3)
	assert.Equal(t, "X-Burger", lines[0].Name)
	assert.True(t, lines[0].UnitPrice.Equal(dec("20.00")), "base price %s", lines[0].UnitPrice)
	assert.Equal(t, "UPGRADE COMBO", lines[1].Name)
	assert.True(t, lines[1].UnitPrice.Equal(dec("12.00")), "upgrade price %s", lines[1].UnitPrice)
	assert.Equal(t, "Batata", lines[2].Name)
	assert.Equal(t, 2, lines[2].Qty)
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2026, 8, 31, 17, 45, 3, 0, time.UTC)
	start, end := dayBounds(day)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), end)
}
