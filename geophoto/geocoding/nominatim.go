// Package geocoding resolves coordinates into human-readable addresses and
// assembles the location provider the rest of the app consumes.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sherryumlah/geoPhoto/geophoto/domain"
)

// DefaultEndpoint is the public Nominatim reverse-geocoding endpoint.
const DefaultEndpoint = "https://nominatim.openstreetmap.org/reverse"

// Client wraps the Nominatim reverse-geocoding API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a reverse-geocoding client. An empty endpoint selects the
// public Nominatim instance.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type reverseResponse struct {
	Error   string         `json:"error"`
	Address reverseAddress `json:"address"`
}

type reverseAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Reverse resolves coordinates into zero or more addresses. Coordinates the
// service cannot resolve (open ocean, poles) yield zero results, not an error.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) ([]domain.Address, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	// Nominatim's usage policy requires an identifying agent
	req.Header.Set("User-Agent", "geoPhoto/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding reverse geocode response: %w", err)
	}

	if parsed.Error != "" {
		return nil, nil
	}

	addr := parsed.Address.toDomain()
	if addr == nil {
		return nil, nil
	}

	return []domain.Address{*addr}, nil
}

// toDomain maps the Nominatim address to the city/region/country tuple,
// taking the most specific populated-place name available. A response with
// none of the fields set counts as no result.
func (ra reverseAddress) toDomain() *domain.Address {
	city := ra.City
	if city == "" {
		city = ra.Town
	}
	if city == "" {
		city = ra.Village
	}

	if city == "" && ra.State == "" && ra.Country == "" {
		return nil
	}

	addr := &domain.Address{}
	if city != "" {
		addr.City = &city
	}
	if ra.State != "" {
		state := ra.State
		addr.Region = &state
	}
	if ra.Country != "" {
		country := ra.Country
		addr.Country = &country
	}

	return addr
}
