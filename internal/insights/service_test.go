package insights

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skburgers/backend/pkg/db/models"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

type stubCompleter struct {
	response string
	err      error
	lastUser string
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func candidate(name string) models.Product {
	return models.Product{ID: uuid.New(), Name: name, Price: decimal.RequireFromString("15.00")}
}

func TestSuggestUpsellReturnsKnownProduct(t *testing.T) {
	dessert := candidate("Pudim")
	completer := &stubCompleter{response: dessert.ID.String()}
	svc, err := NewService(completer, nil)
	require.NoError(t, err)

	got := svc.SuggestUpsell(context.Background(), []string{"X-Burger"}, []models.Product{dessert})
	require.NotNil(t, got)
	assert.Equal(t, dessert.ID, *got)
	assert.Contains(t, completer.lastUser, "X-Burger")
}

func TestSuggestUpsellDegradesOnFailure(t *testing.T) {
	completer := &stubCompleter{err: pkgerrors.New(pkgerrors.CodeDependency, "timeout")}
	svc, err := NewService(completer, nil)
	require.NoError(t, err)

	got := svc.SuggestUpsell(context.Background(), []string{"X-Burger"}, []models.Product{candidate("Pudim")})
	assert.Nil(t, got)
}

func TestSuggestUpsellIgnoresUnknownID(t *testing.T) {
	completer := &stubCompleter{response: uuid.NewString()}
	svc, err := NewService(completer, nil)
	require.NoError(t, err)

	got := svc.SuggestUpsell(context.Background(), nil, []models.Product{candidate("Pudim")})
	assert.Nil(t, got)
}

func TestSuggestUpsellHonorsNone(t *testing.T) {
	completer := &stubCompleter{response: "NONE"}
	svc, err := NewService(completer, nil)
	require.NoError(t, err)

	got := svc.SuggestUpsell(context.Background(), nil, []models.Product{candidate("Pudim")})
	assert.Nil(t, got)
}

func TestBusinessInsightsSplitsLines(t *testing.T) {
	completer := &stubCompleter{response: "- Aumente o estoque de pão\n- PIX domina os pagamentos\n- Quarta é o dia mais fraco\n- extra line"}
	svc, err := NewService(completer, nil)
	require.NoError(t, err)

	insights := svc.BusinessInsights(context.Background(), DaySummary{OrderCount: 42})
	require.Len(t, insights, 3)
	assert.Equal(t, "Aumente o estoque de pão", insights[0])
}

func TestBusinessInsightsDegradesOnFailure(t *testing.T) {
	completer := &stubCompleter{err: pkgerrors.New(pkgerrors.CodeDependency, "down")}
	svc, err := NewService(completer, nil)
	require.NoError(t, err)

	assert.Nil(t, svc.BusinessInsights(context.Background(), DaySummary{}))
}
