package notifications

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skburgers/backend/pkg/db/models"
)

const (
	countryPrefix = "55"
	// localNumberLen is the longest Brazilian number without the country
	// code: 2-digit DDD plus a 9-digit mobile.
	localNumberLen = 11
)

// WhatsAppLink builds a wa.me deep link with the message pre-filled. This is
// link construction only; nothing is sent.
func WhatsAppLink(phone, message string) string {
	normalized := normalizePhone(phone)
	if normalized == "" {
		return ""
	}
	link := "https://wa.me/" + normalized
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

// PreparingMessage tells the customer the kitchen started their order.
func PreparingMessage(order models.Order) string {
	return fmt.Sprintf(
		"Olá %s! Seu pedido #%s já está em preparo. Total: R$ %s. Obrigado pela preferência!",
		firstName(order.Customer.Name), order.Comanda, order.Total.StringFixed(2),
	)
}

// OutForDeliveryMessage tells the customer their order left with a driver.
func OutForDeliveryMessage(order models.Order) string {
	driver := "nosso entregador"
	if order.DriverName != nil && *order.DriverName != "" {
		driver = *order.DriverName
	}
	return fmt.Sprintf(
		"Olá %s! Seu pedido #%s saiu para entrega com %s. Fique de olho no portão!",
		firstName(order.Customer.Name), order.Comanda, driver,
	)
}

// WinBackMessage invites a customer who has not ordered recently.
func WinBackMessage(name string) string {
	return fmt.Sprintf(
		"Olá %s! Sentimos sua falta por aqui. Que tal um burger hoje? Temos novidades no cardápio!",
		firstName(name),
	)
}

// normalizePhone keeps digits only and guarantees the country prefix. The
// check is length-based so DDD 55 numbers are not mistaken for ones already
// carrying the country code.
func normalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if number == "" {
		return ""
	}
	if len(number) <= localNumberLen {
		number = countryPrefix + number
	}
	return number
}

func firstName(full string) string {
	trimmed := strings.TrimSpace(full)
	if trimmed == "" {
		return "cliente"
	}
	if idx := strings.IndexByte(trimmed, ' '); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}
