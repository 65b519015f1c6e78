package enums

import "fmt"

// PaymentMethod identifies how the customer settles the order.
type PaymentMethod string

const (
	PaymentMethodPIX    PaymentMethod = "PIX"
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodDebit  PaymentMethod = "DEBIT"
	PaymentMethodCredit PaymentMethod = "CREDIT"
	PaymentMethodSodexo PaymentMethod = "SODEXO"
	PaymentMethodAlelo  PaymentMethod = "ALELO"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPIX,
	PaymentMethodCash,
	PaymentMethodDebit,
	PaymentMethodCredit,
	PaymentMethodSodexo,
	PaymentMethodAlelo,
}

// PaymentMethods returns every accepted payment method.
func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(validPaymentMethods))
	copy(out, validPaymentMethods)
	return out
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
