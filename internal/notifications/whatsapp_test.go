package notifications

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/skburgers/backend/pkg/db/models"
)

func TestWhatsAppLinkNormalizesPhone(t *testing.T) {
	link := WhatsAppLink("(92) 99999-0000", "")
	assert.Equal(t, "https://wa.me/5592999990000", link)

	// Already prefixed numbers are left alone.
	link = WhatsAppLink("+55 92 99999-0000", "")
	assert.Equal(t, "https://wa.me/5592999990000", link)

	// DDD 55 is a local area code, not the country prefix.
	link = WhatsAppLink("(55) 99999-0000", "")
	assert.Equal(t, "https://wa.me/5555999990000", link)

	assert.Empty(t, WhatsAppLink("", "oi"))
}

func TestWhatsAppLinkEscapesMessage(t *testing.T) {
	link := WhatsAppLink("92999990000", "Olá João & Maria!")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5592999990000?text="))
	assert.NotContains(t, link, " ")
	assert.Contains(t, link, "Ol%C3%A1")
}

func TestPreparingMessage(t *testing.T) {
	order := models.Order{
		Comanda:  "1234",
		Total:    decimal.RequireFromString("54.50"),
		Customer: models.CustomerSnapshot{Name: "Ana Souza"},
	}
	msg := PreparingMessage(order)
	assert.Contains(t, msg, "Ana")
	assert.NotContains(t, msg, "Souza")
	assert.Contains(t, msg, "#1234")
	assert.Contains(t, msg, "54.50")
}

func TestOutForDeliveryMessageUsesDriverName(t *testing.T) {
	driver := "Carlos"
	order := models.Order{
		Comanda:    "1234",
		DriverName: &driver,
		Customer:   models.CustomerSnapshot{Name: "Ana"},
	}
	assert.Contains(t, OutForDeliveryMessage(order), "Carlos")

	order.DriverName = nil
	assert.Contains(t, OutForDeliveryMessage(order), "nosso entregador")
}

func TestFirstNameFallback(t *testing.T) {
	assert.Equal(t, "cliente", firstName("  "))
	assert.Equal(t, "Ana", firstName("Ana"))
}
