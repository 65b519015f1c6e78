package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

const (
	nearBandKM = 2.0
	midBandKM  = 4.0
)

// adjustmentRates maps each payment method to its signed rate applied on the
// subtotal. Instant methods earn a discount, voucher cards pay a surcharge.
var adjustmentRates = map[enums.PaymentMethod]decimal.Decimal{
	enums.PaymentMethodPIX:    decimal.RequireFromString("-0.05"),
	enums.PaymentMethodCash:   decimal.RequireFromString("-0.05"),
	enums.PaymentMethodDebit:  decimal.Zero,
	enums.PaymentMethodCredit: decimal.Zero,
	enums.PaymentMethodSodexo: decimal.RequireFromString("0.10"),
	enums.PaymentMethodAlelo:  decimal.RequireFromString("0.10"),
}

// Line is one cart entry as priced at order time. UnitPrice already carries
// selected add-ons and, when IsCombo is set, the combo upgrade surcharge.
type Line struct {
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
	IsCombo   bool
}

// Quote is the money breakdown computed for a checkout attempt.
type Quote struct {
	Subtotal          decimal.Decimal
	DeliveryFee       decimal.Decimal
	PaymentAdjustment decimal.Decimal
	Total             decimal.Decimal
}

// FiscalLine is a synthetic line used when reporting an order to the fiscal
// system; combo lines are split into their base item plus an upgrade entry.
type FiscalLine struct {
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Calculator computes order totals from the configured fee bands and rates.
type Calculator struct {
	pricing     config.PricingConfig
	maxRadiusKM float64
}

// NewCalculator builds a calculator from the pricing and delivery settings.
func NewCalculator(pricing config.PricingConfig, delivery config.DeliveryConfig) *Calculator {
	return &Calculator{
		pricing:     pricing,
		maxRadiusKM: delivery.MaxRadiusKM,
	}
}

// Subtotal sums unit price times quantity across all lines.
func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return subtotal
}

// AdjustmentRate returns the signed rate for the payment method.
func AdjustmentRate(method enums.PaymentMethod) (decimal.Decimal, error) {
	rate, ok := adjustmentRates[method]
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", method))
	}
	return rate, nil
}

// DeliveryFee resolves the banded fee for the distance, or refuses delivery
// entirely when the address sits beyond the configured radius.
func (c *Calculator) DeliveryFee(distanceKM float64) (decimal.Decimal, error) {
	switch {
	case distanceKM < 0:
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "distance cannot be negative")
	case distanceKM <= nearBandKM:
		return c.pricing.FeeNear(), nil
	case distanceKM <= midBandKM:
		return c.pricing.FeeMid(), nil
	case distanceKM <= c.maxRadiusKM:
		return c.pricing.FeeFar(), nil
	default:
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeOutOfRange, "address is outside the delivery radius").WithDetails(map[string]any{
			"distance_km":   distanceKM,
			"max_radius_km": c.maxRadiusKM,
		})
	}
}

// Quote computes the full money breakdown. Total is always
// subtotal + deliveryFee + paymentAdjustment, never adjusted independently.
func (c *Calculator) Quote(lines []Line, distanceKM float64, method enums.PaymentMethod) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range lines {
		if line.Qty <= 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %q has non-positive quantity", line.Name))
		}
		if line.UnitPrice.IsNegative() {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %q has negative unit price", line.Name))
		}
	}

	rate, err := AdjustmentRate(method)
	if err != nil {
		return Quote{}, err
	}
	fee, err := c.DeliveryFee(distanceKM)
	if err != nil {
		return Quote{}, err
	}

	subtotal := Subtotal(lines).Round(2)
	adjustment := subtotal.Mul(rate).Round(2)

	return Quote{
		Subtotal:          subtotal,
		DeliveryFee:       fee,
		PaymentAdjustment: adjustment,
		Total:             subtotal.Add(fee).Add(adjustment),
	}, nil
}

// ComboUpgrade returns the fixed surcharge applied to upgraded lines.
func (c *Calculator) ComboUpgrade() decimal.Decimal {
	return c.pricing.ComboUpgrade()
}

// ApplyComboUpgrade raises a line's unit price by the fixed surcharge and
// flags it. Reversing an upgrade is not supported.
func (c *Calculator) ApplyComboUpgrade(line Line) (Line, error) {
	if line.IsCombo {
		return line, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("line %q is already a combo", line.Name))
	}
	line.UnitPrice = line.UnitPrice.Add(c.pricing.ComboUpgrade())
	line.IsCombo = true
	return line, nil
}

// SplitForFiscal expands combo lines into two synthetic entries, the base
// item at its pre-combo price and an upgrade pseudo-item at the surcharge.
func (c *Calculator) SplitForFiscal(lines []Line) []FiscalLine {
	upgrade := c.pricing.ComboUpgrade()
	split := make([]FiscalLine, 0, len(lines))
	for _, line := range lines {
		if !line.IsCombo {
			split = append(split, FiscalLine{Name: line.Name, Qty: line.Qty, UnitPrice: line.UnitPrice})
			continue
		}
		split = append(split,
			FiscalLine{Name: line.Name, Qty: line.Qty, UnitPrice: line.UnitPrice.Sub(upgrade)},
			FiscalLine{Name: "UPGRADE COMBO", Qty: line.Qty, UnitPrice: upgrade},
		)
	}
	return split
}
