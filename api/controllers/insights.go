package controllers

import (
	"net/http"
	"time"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/internal/finance"
	"github.com/skburgers/backend/internal/insights"
	"github.com/skburgers/backend/pkg/logger"
)

// AdminInsights summarizes today's numbers and asks the model for short
// actionable insights. A missing model key yields an empty list, not an
// error.
func AdminInsights(financeSvc *finance.Service, insightsSvc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := financeSvc.Daily(r.Context(), time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := insightsSvc.BusinessInsights(r.Context(), insights.DaySummary{
			OrderCount: summary.OrderCount,
			Revenue:    summary.Revenue.StringFixed(2),
			AvgTicket:  summary.AvgTicket.StringFixed(2),
		})

		responses.WriteSuccess(w, map[string]any{
			"summary":  summary,
			"insights": lines,
		})
	}
}
