package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/logger"
)

const (
	upsellSystemPrompt = "Você sugere um único item adicional para o carrinho de uma hamburgueria. " +
		"Responda somente com o id do produto sugerido, nada mais. Se nada fizer sentido, responda NONE."
	ceoSystemPrompt = "Você é um consultor de uma hamburgueria de delivery. " +
		"Gere de 2 a 3 insights curtos e acionáveis sobre os números do dia, um por linha, em português."
)

// Completer is the completion surface the service needs.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// DaySummary aggregates the numbers the CEO insights prompt sees.
type DaySummary struct {
	OrderCount    int    `json:"order_count"`
	Revenue       string `json:"revenue"`
	AvgTicket     string `json:"avg_ticket"`
	TopProduct    string `json:"top_product"`
	CancelledRate string `json:"cancelled_rate"`
}

// Service produces best-effort LLM suggestions. Failures degrade to empty
// results so checkout and dashboards never block on it.
type Service struct {
	completer Completer
	logg      *logger.Logger
}

// NewService builds the insights service.
func NewService(completer Completer, logg *logger.Logger) (*Service, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer required")
	}
	return &Service{completer: completer, logg: logg}, nil
}

// SuggestUpsell returns the id of one catalog product to offer, or nil when
// the model has no suggestion or the call fails.
func (s *Service) SuggestUpsell(ctx context.Context, cartNames []string, candidates []models.Product) *uuid.UUID {
	if len(candidates) == 0 {
		return nil
	}

	var prompt strings.Builder
	prompt.WriteString("Carrinho atual: ")
	prompt.WriteString(strings.Join(cartNames, ", "))
	prompt.WriteString("\nProdutos disponíveis:\n")
	for _, product := range candidates {
		fmt.Fprintf(&prompt, "- %s: %s (R$ %s)\n", product.ID, product.Name, product.Price.StringFixed(2))
	}

	raw, err := s.completer.Complete(ctx, upsellSystemPrompt, prompt.String(), 64)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "upsell suggestion unavailable", err)
		}
		return nil
	}
	if strings.EqualFold(raw, "NONE") {
		return nil
	}

	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	for _, product := range candidates {
		if product.ID == id {
			return &id
		}
	}
	return nil
}

// BusinessInsights returns 2-3 short textual insights for the admin
// dashboard, or nothing when the call fails.
func (s *Service) BusinessInsights(ctx context.Context, summary DaySummary) []string {
	prompt := fmt.Sprintf(
		"Pedidos: %d\nFaturamento: R$ %s\nTicket médio: R$ %s\nProduto mais vendido: %s\nTaxa de cancelamento: %s",
		summary.OrderCount, summary.Revenue, summary.AvgTicket, summary.TopProduct, summary.CancelledRate,
	)

	raw, err := s.completer.Complete(ctx, ceoSystemPrompt, prompt, 256)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "business insights unavailable", err)
		}
		return nil
	}

	var insights []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-•*0123456789. "))
		if line != "" {
			insights = append(insights, line)
		}
	}
	if len(insights) > 3 {
		insights = insights[:3]
	}
	return insights
}
