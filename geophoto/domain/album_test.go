package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestAlbumName(t *testing.T) {
	takenAt := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		prefix  string
		country *string
		region  *string
		takenAt time.Time
		want    string
	}{
		{
			name:    "full address",
			prefix:  DefaultAlbumPrefix,
			country: strPtr("USA"),
			region:  strPtr("IL"),
			takenAt: takenAt,
			want:    "geoPhoto - USA - IL - 2026-03",
		},
		{
			name:    "missing country",
			prefix:  DefaultAlbumPrefix,
			region:  strPtr("IL"),
			takenAt: takenAt,
			want:    "geoPhoto - Unknown Country - IL - 2026-03",
		},
		{
			name:    "missing region",
			prefix:  DefaultAlbumPrefix,
			country: strPtr("USA"),
			takenAt: takenAt,
			want:    "geoPhoto - USA - Unknown Region - 2026-03",
		},
		{
			name:    "blank strings treated as missing",
			prefix:  DefaultAlbumPrefix,
			country: strPtr("  "),
			region:  strPtr(""),
			takenAt: takenAt,
			want:    "geoPhoto - Unknown Country - Unknown Region - 2026-03",
		},
		{
			name:    "zero timestamp drops the month",
			prefix:  DefaultAlbumPrefix,
			country: strPtr("USA"),
			region:  strPtr("IL"),
			want:    "geoPhoto - USA - IL",
		},
		{
			name:    "custom prefix",
			prefix:  "travelLog",
			country: strPtr("France"),
			region:  strPtr("Normandy"),
			takenAt: takenAt,
			want:    "travelLog - France - Normandy - 2026-03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlbumName(tt.prefix, tt.country, tt.region, tt.takenAt)
			if got != tt.want {
				t.Errorf("AlbumName = %q, want %q", got, tt.want)
			}
		})
	}
}
