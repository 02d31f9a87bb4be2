package application

import (
	"context"
	"sync"

	"github.com/sherryumlah/geoPhoto/geophoto/domain"
)

const (
	permissionDeniedMsg = "Permission to access location was denied"
	locationFallbackMsg = "Failed to get location"
)

// LocationSnapshot is the state a caller sees between fetches. Fix and
// Address are copies; mutating them does not touch the service.
type LocationSnapshot struct {
	Fix     *domain.Fix
	Address *domain.Address
	Loading bool
	ErrMsg  string
}

// LocationService acquires a GPS fix and its reverse-geocoded address on
// demand and exposes the loading/error state around that. A failed fetch
// keeps the previously-known fix and address so a caller can keep showing
// stale-but-real data next to the error.
//
// Refetch is not de-duplicated: overlapping calls race and the last writer
// wins, same as the cooperative single-threaded model this mirrors.
type LocationService struct {
	provider domain.LocationProvider

	mu      sync.Mutex
	fix     *domain.Fix
	address *domain.Address
	loading bool
	errMsg  string
}

func NewLocationService(provider domain.LocationProvider) *LocationService {
	return &LocationService{
		provider: provider,
	}
}

// Snapshot returns the current fix/address/loading/error state.
func (s *LocationService) Snapshot() LocationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := LocationSnapshot{
		Loading: s.loading,
		ErrMsg:  s.errMsg,
	}

	if s.fix != nil {
		fix := *s.fix
		snap.Fix = &fix
	}
	if s.address != nil {
		addr := *s.address
		snap.Address = &addr
	}

	return snap
}

// Refetch runs one full fetch cycle: permission, position, reverse geocode.
// Loading is cleared on every exit path.
func (s *LocationService) Refetch(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	granted, err := s.provider.RequestPermission(ctx)
	if err != nil {
		s.setError(errorMessage(err))
		return
	}
	if !granted {
		s.setError(permissionDeniedMsg)
		return
	}

	fix, err := s.provider.CurrentFix(ctx)
	if err != nil {
		s.setError(errorMessage(err))
		return
	}

	s.mu.Lock()
	s.fix = fix
	// New fetch cycle: the address belongs to the new fix until geocoding
	// says otherwise
	s.address = nil
	s.mu.Unlock()

	addresses, err := s.provider.ReverseGeocode(ctx, fix.Latitude, fix.Longitude)
	if err != nil {
		s.setError(errorMessage(err))
		return
	}

	// Zero results is not an error; the address stays absent
	if len(addresses) > 0 {
		addr := addresses[0]
		s.mu.Lock()
		s.address = &addr
		s.mu.Unlock()
	}
}

func (s *LocationService) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// errorMessage falls back to a fixed string for errors that carry no text.
func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return locationFallbackMsg
	}
	return err.Error()
}
