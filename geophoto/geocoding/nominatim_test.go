package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReverse_ResolvesAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "jsonv2" {
			t.Errorf("format = %q, want jsonv2", r.URL.Query().Get("format"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		w.Write([]byte(`{"address":{"city":"Chicago","state":"IL","country":"USA"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	addresses, err := client.Reverse(context.Background(), 41.8781, -87.6298)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if len(addresses) != 1 {
		t.Fatalf("got %d addresses, want 1", len(addresses))
	}

	addr := addresses[0]
	if addr.City == nil || *addr.City != "Chicago" {
		t.Errorf("City = %v, want Chicago", addr.City)
	}
	if addr.Region == nil || *addr.Region != "IL" {
		t.Errorf("Region = %v, want IL", addr.Region)
	}
	if addr.Country == nil || *addr.Country != "USA" {
		t.Errorf("Country = %v, want USA", addr.Country)
	}
}

func TestReverse_TownFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"town":"Galena","state":"IL","country":"USA"}}`))
	}))
	defer server.Close()

	addresses, err := NewClient(server.URL).Reverse(context.Background(), 42.4167, -90.4290)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if len(addresses) != 1 || addresses[0].City == nil || *addresses[0].City != "Galena" {
		t.Errorf("addresses = %v, want town used as city", addresses)
	}
}

func TestReverse_UnresolvableIsZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer server.Close()

	addresses, err := NewClient(server.URL).Reverse(context.Background(), 0, -160)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if len(addresses) != 0 {
		t.Errorf("addresses = %v, want zero results", addresses)
	}
}

func TestReverse_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Reverse(context.Background(), 1, 2); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestProvider_GracefulWithoutGeocoder(t *testing.T) {
	provider := NewProvider(true, StaticFixSource(41.8781, -87.6298, 10), nil)
	ctx := context.Background()

	granted, err := provider.RequestPermission(ctx)
	if err != nil || !granted {
		t.Fatalf("RequestPermission = %v, %v", granted, err)
	}

	fix, err := provider.CurrentFix(ctx)
	if err != nil {
		t.Fatalf("CurrentFix failed: %v", err)
	}
	if fix.Latitude != 41.8781 || fix.Longitude != -87.6298 {
		t.Errorf("fix = %+v", fix)
	}

	addresses, err := provider.ReverseGeocode(ctx, fix.Latitude, fix.Longitude)
	if err != nil {
		t.Fatalf("ReverseGeocode failed: %v", err)
	}
	if len(addresses) != 0 {
		t.Errorf("addresses = %v, want zero without a geocoder", addresses)
	}
}

func TestProvider_NoFixSource(t *testing.T) {
	provider := NewProvider(true, nil, nil)

	if _, err := provider.CurrentFix(context.Background()); err == nil {
		t.Error("expected an error without a fix source")
	}
}
