package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sherryumlah/geoPhoto/geophoto/domain"
)

type fakeLocationProvider struct {
	granted bool
	permErr error

	fix    *domain.Fix
	fixErr error

	addresses  []domain.Address
	geocodeErr error

	// onCurrentFix runs inside CurrentFix, letting tests observe mid-fetch state
	onCurrentFix func()
}

func (f *fakeLocationProvider) RequestPermission(context.Context) (bool, error) {
	return f.granted, f.permErr
}

func (f *fakeLocationProvider) CurrentFix(context.Context) (*domain.Fix, error) {
	if f.onCurrentFix != nil {
		f.onCurrentFix()
	}
	if f.fixErr != nil {
		return nil, f.fixErr
	}
	fix := *f.fix
	return &fix, nil
}

func (f *fakeLocationProvider) ReverseGeocode(context.Context, float64, float64) ([]domain.Address, error) {
	return f.addresses, f.geocodeErr
}

func addrPtr(s string) *string { return &s }

func chicagoProvider() *fakeLocationProvider {
	return &fakeLocationProvider{
		granted: true,
		fix: &domain.Fix{
			Latitude:  41.8781,
			Longitude: -87.6298,
			Accuracy:  5,
			Timestamp: time.Now(),
		},
		addresses: []domain.Address{
			{City: addrPtr("Chicago"), Region: addrPtr("IL"), Country: addrPtr("USA")},
		},
	}
}

func TestRefetch_FixAndAddress(t *testing.T) {
	provider := chicagoProvider()
	svc := NewLocationService(provider)

	sawLoading := false
	provider.onCurrentFix = func() {
		sawLoading = svc.Snapshot().Loading
	}

	svc.Refetch(context.Background())

	if !sawLoading {
		t.Error("expected loading=true during the fetch")
	}

	snap := svc.Snapshot()
	if snap.Loading {
		t.Error("loading should be false after the fetch")
	}
	if snap.ErrMsg != "" {
		t.Errorf("ErrMsg = %q, want empty", snap.ErrMsg)
	}
	if snap.Fix == nil || snap.Fix.Latitude != 41.8781 || snap.Fix.Longitude != -87.6298 {
		t.Errorf("Fix = %+v, want Chicago coordinates", snap.Fix)
	}
	if snap.Address == nil {
		t.Fatal("Address = nil, want Chicago")
	}
	if *snap.Address.City != "Chicago" || *snap.Address.Region != "IL" || *snap.Address.Country != "USA" {
		t.Errorf("Address = %+v, want Chicago/IL/USA", snap.Address)
	}
}

func TestRefetch_ZeroGeocodeResults(t *testing.T) {
	provider := chicagoProvider()
	provider.addresses = nil

	svc := NewLocationService(provider)
	svc.Refetch(context.Background())

	snap := svc.Snapshot()
	if snap.ErrMsg != "" {
		t.Errorf("ErrMsg = %q, want empty (zero results is not an error)", snap.ErrMsg)
	}
	if snap.Fix == nil {
		t.Error("Fix should still be populated")
	}
	if snap.Address != nil {
		t.Errorf("Address = %+v, want nil", snap.Address)
	}
}

func TestRefetch_PermissionDenied(t *testing.T) {
	provider := chicagoProvider()
	provider.granted = false

	svc := NewLocationService(provider)
	svc.Refetch(context.Background())

	snap := svc.Snapshot()
	if snap.Loading {
		t.Error("loading should end false")
	}
	if snap.Fix != nil {
		t.Errorf("Fix = %+v, want nil", snap.Fix)
	}
	if snap.ErrMsg != "Permission to access location was denied" {
		t.Errorf("ErrMsg = %q, want the denied message", snap.ErrMsg)
	}
}

func TestRefetch_PermissionDeniedKeepsPreviousFix(t *testing.T) {
	provider := chicagoProvider()
	svc := NewLocationService(provider)

	svc.Refetch(context.Background())
	if svc.Snapshot().Fix == nil {
		t.Fatal("first fetch should populate the fix")
	}

	provider.granted = false
	svc.Refetch(context.Background())

	snap := svc.Snapshot()
	if snap.Fix == nil || snap.Address == nil {
		t.Error("a denied refetch must not clear previously-known values")
	}
	if snap.ErrMsg == "" {
		t.Error("expected the denied error message")
	}
}

func TestRefetch_FixFailureUsesUnderlyingMessage(t *testing.T) {
	provider := chicagoProvider()
	provider.fixErr = errors.New("GPS signal lost")

	svc := NewLocationService(provider)
	svc.Refetch(context.Background())

	snap := svc.Snapshot()
	if snap.ErrMsg != "GPS signal lost" {
		t.Errorf("ErrMsg = %q, want the underlying message", snap.ErrMsg)
	}
	if snap.Fix != nil {
		t.Errorf("Fix = %+v, want nil", snap.Fix)
	}
}

// blankError carries no message at all.
type blankError struct{}

func (blankError) Error() string { return "" }

func TestRefetch_MessagelessErrorFallsBack(t *testing.T) {
	provider := chicagoProvider()
	provider.fixErr = blankError{}

	svc := NewLocationService(provider)
	svc.Refetch(context.Background())

	if got := svc.Snapshot().ErrMsg; got != "Failed to get location" {
		t.Errorf("ErrMsg = %q, want the fixed fallback", got)
	}
}

func TestRefetch_GeocodeErrorKeepsFix(t *testing.T) {
	provider := chicagoProvider()
	provider.geocodeErr = errors.New("geocoder offline")

	svc := NewLocationService(provider)
	svc.Refetch(context.Background())

	snap := svc.Snapshot()
	if snap.Fix == nil {
		t.Error("Fix should be kept when only geocoding fails")
	}
	if snap.Address != nil {
		t.Errorf("Address = %+v, want nil", snap.Address)
	}
	if snap.ErrMsg != "geocoder offline" {
		t.Errorf("ErrMsg = %q, want geocoder offline", snap.ErrMsg)
	}
}

func TestRefetch_ClearsPriorError(t *testing.T) {
	provider := chicagoProvider()
	provider.granted = false

	svc := NewLocationService(provider)
	svc.Refetch(context.Background())
	if svc.Snapshot().ErrMsg == "" {
		t.Fatal("expected an error from the denied fetch")
	}

	provider.granted = true
	svc.Refetch(context.Background())

	if got := svc.Snapshot().ErrMsg; got != "" {
		t.Errorf("ErrMsg = %q, want cleared", got)
	}
}
