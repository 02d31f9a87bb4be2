package geocoding

import (
	"context"
	"fmt"
	"time"

	"github.com/sherryumlah/geoPhoto/geophoto/domain"
)

var _ domain.LocationProvider = (*Provider)(nil)

// FixSource produces the current position reading. It is the device
// integration point: the CLI wires flag coordinates, the server wires
// configured ones.
type FixSource func(ctx context.Context) (*domain.Fix, error)

// StaticFixSource returns a FixSource that always reads the given
// coordinates, stamped at call time.
func StaticFixSource(lat, lon, accuracy float64) FixSource {
	return func(context.Context) (*domain.Fix, error) {
		return &domain.Fix{
			Latitude:  lat,
			Longitude: lon,
			Accuracy:  accuracy,
			Timestamp: time.Now(),
		}, nil
	}
}

// Provider assembles a domain.LocationProvider from a permission decision, a
// fix source, and an optional reverse-geocoding client.
type Provider struct {
	allowed  bool
	source   FixSource
	geocoder *Client
}

func NewProvider(allowed bool, source FixSource, geocoder *Client) *Provider {
	return &Provider{
		allowed:  allowed,
		source:   source,
		geocoder: geocoder,
	}
}

func (p *Provider) RequestPermission(context.Context) (bool, error) {
	return p.allowed, nil
}

func (p *Provider) CurrentFix(ctx context.Context) (*domain.Fix, error) {
	if p.source == nil {
		return nil, fmt.Errorf("no location source configured")
	}
	return p.source(ctx)
}

// ReverseGeocode degrades gracefully: without a geocoder every lookup yields
// zero results, which capture treats as a photo without an address.
func (p *Provider) ReverseGeocode(ctx context.Context, lat, lon float64) ([]domain.Address, error) {
	if p.geocoder == nil {
		return nil, nil
	}
	return p.geocoder.Reverse(ctx, lat, lon)
}
