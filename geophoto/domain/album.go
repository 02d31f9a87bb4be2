package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAlbumPrefix is the album prefix used when none is configured.
const DefaultAlbumPrefix = "geoPhoto"

// AlbumName builds the media-store album name a photo belongs to:
//
//	<prefix> - <country> - <region> - <YYYY-MM>
//
// Missing address parts fall back to "Unknown Country" / "Unknown Region",
// and a zero timestamp drops the year-month suffix. Deletion relies on
// rebuilding exactly this name from a stored record, so it must stay in sync
// with the grouping done at capture time.
func AlbumName(prefix string, country, region *string, takenAt time.Time) string {
	c := "Unknown Country"
	if country != nil && strings.TrimSpace(*country) != "" {
		c = *country
	}

	r := "Unknown Region"
	if region != nil && strings.TrimSpace(*region) != "" {
		r = *region
	}

	if takenAt.IsZero() {
		return fmt.Sprintf("%s - %s - %s", prefix, c, r)
	}

	return fmt.Sprintf("%s - %s - %s - %s", prefix, c, r, takenAt.Format("2006-01"))
}
