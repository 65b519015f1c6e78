package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/skburgers/backend/pkg/config"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

var cepPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)

// Lookup is the normalized ViaCEP response used for checkout autofill.
type Lookup struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro,omitempty"`
}

// Client wraps the ViaCEP postal code API. Lookups are restricted to the
// configured city; everywhere else is outside the delivery area.
type Client struct {
	httpClient *http.Client
	baseURL    string
	city       string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the ViaCEP client.
func NewClient(cfg config.ViaCEPConfig, store config.StoreConfig, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		city:       store.City,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Lookup resolves street and neighborhood text for the postal code.
func (c *Client) Lookup(ctx context.Context, cep string) (*Lookup, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(cep), ".", "")
	if !cepPattern.MatchString(normalized) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cep %q", cep))
	}
	normalized = strings.ReplaceAll(normalized, "-", "")

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, normalized)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build viacep request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call viacep")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("viacep returned status %d", resp.StatusCode))
	}

	var payload viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode viacep response")
	}
	if payload.Erro {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("cep %s not found", cep))
	}

	if !strings.EqualFold(payload.Localidade, c.city) {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfRange, fmt.Sprintf("deliveries are limited to %s", c.city)).WithDetails(map[string]any{
			"city": payload.Localidade,
		})
	}

	return &Lookup{
		CEP:          payload.CEP,
		Street:       payload.Logradouro,
		Neighborhood: payload.Bairro,
		City:         payload.Localidade,
		State:        payload.UF,
	}, nil
}
