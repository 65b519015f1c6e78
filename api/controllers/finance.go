package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/internal/finance"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
)

// AdminDailyFinance returns the money dashboard for one local day,
// defaulting to today.
func AdminDailyFinance(svc *finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := dayParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Daily(r.Context(), day)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// AdminFiscalReport returns the day's orders with combo lines expanded into
// their fiscal form.
func AdminFiscalReport(svc *finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := dayParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Fiscal(r.Context(), day)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func dayParam(r *http.Request) (time.Time, error) {
	day := time.Now()
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return day, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, day.Location())
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	return parsed, nil
}
