package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorMapsOutOfRangeTo422(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeOutOfRange, "address outside the delivery radius").
		WithDetails(map[string]any{"distance_km": 6.2, "max_radius_km": 5.5})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeOutOfRange) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected distance details in public payload")
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Details != nil {
		t.Fatalf("details should be omitted for internal errors")
	}
}
