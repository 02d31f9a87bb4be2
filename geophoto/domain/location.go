package domain

import (
	"context"
	"time"
)

// Fix is a single GPS reading. It lives in memory for one fetch cycle only
// and is never persisted directly; the capture pipeline consumes it at the
// instant of capture.
type Fix struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters
	Timestamp time.Time
}

// Address is the reverse-geocoded enrichment of a Fix. Every field may be
// absent; a missing address must never block capture.
type Address struct {
	City    *string
	Region  *string
	Country *string
}

// LocationProvider is the device-side location collaborator.
type LocationProvider interface {
	// RequestPermission asks for foreground location access.
	RequestPermission(ctx context.Context) (bool, error)

	// CurrentFix requests a single high-accuracy position reading.
	CurrentFix(ctx context.Context) (*Fix, error)

	// ReverseGeocode resolves coordinates into zero or more addresses.
	// Zero results is not an error.
	ReverseGeocode(ctx context.Context, lat, lon float64) ([]Address, error)
}
