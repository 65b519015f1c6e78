package address

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skburgers/backend/pkg/config"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(
		config.ViaCEPConfig{BaseURL: server.URL},
		config.StoreConfig{City: "MANAUS"},
	)
	return client, server
}

func TestLookupReturnsAddress(t *testing.T) {
	var capturedPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cep":"69098-420","logradouro":"Rua das Flores","bairro":"Cidade Nova","localidade":"Manaus","uf":"AM"}`))
	})

	lookup, err := client.Lookup(context.Background(), "69098-420")
	require.NoError(t, err)
	assert.Equal(t, "/69098420/json/", capturedPath)
	assert.Equal(t, "Rua das Flores", lookup.Street)
	assert.Equal(t, "Cidade Nova", lookup.Neighborhood)
	assert.Equal(t, "Manaus", lookup.City)
}

func TestLookupRejectsOtherCities(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
	})

	_, err := client.Lookup(context.Background(), "01001-000")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeOutOfRange, pkgerrors.As(err).Code())
}

func TestLookupRejectsMalformedCEP(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for malformed cep")
	})

	_, err := client.Lookup(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLookupUnknownCEP(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"erro": true}`))
	})

	_, err := client.Lookup(context.Background(), "99999-999")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
