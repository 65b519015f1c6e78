package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}

func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a YYYY-MM-DD date").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

func PathUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a uuid")
	}
	return id, nil
}
