package reniec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/siga-peru/academico-api/pkg/config"
)

// ErrNotFound is returned when the registry has no record for a document.
var ErrNotFound = errors.New("document not found")

// Person is the basic profile returned by the national identity registry.
type Person struct {
	DNI          string `json:"numeroDocumento"`
	FirstName    string `json:"nombres"`
	PaternalName string `json:"apellidoPaterno"`
	MaternalName string `json:"apellidoMaterno"`
}

// Lookuper resolves a document number to a basic profile.
type Lookuper interface {
	Lookup(ctx context.Context, dni string) (*Person, error)
}

// Client queries the RENIEC lookup HTTP service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient constructs a lookup client from configuration.
func NewClient(cfg config.ReniecConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Lookup fetches the profile for the given document number.
func (c *Client) Lookup(ctx context.Context, dni string) (*Person, error) {
	endpoint := fmt.Sprintf("%s/dni?numero=%s", c.baseURL, url.QueryEscape(dni))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build dni lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dni lookup: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("dni %s: %w", dni, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dni lookup returned status %d", resp.StatusCode)
	}

	var person Person
	if err := json.NewDecoder(resp.Body).Decode(&person); err != nil {
		return nil, fmt.Errorf("decode dni lookup response: %w", err)
	}
	return &person, nil
}
