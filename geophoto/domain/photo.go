package domain

import (
	"context"
	"time"
)

// GeoPhoto is the durable record linking a captured image to the location it
// was taken at. Nullable columns are pointers so that "absent" is explicit
// rather than a zero value: a photo taken with location permission denied has
// nil Latitude/Longitude, not 0/0.
type GeoPhoto struct {
	ID           int64
	URI          string
	TakenAt      time.Time
	Latitude     *float64
	Longitude    *float64
	City         *string
	Region       *string
	Country      *string
	Note         *string
	MediaAssetID *string
}

// DeleteResult reports the outcome of a two-phase delete. Reason is only set
// when OK is false and distinguishes a denied media permission from other
// media-store failures, so the caller can explain the refusal to the user.
type DeleteResult struct {
	OK     bool
	Reason string
}

// Delete failure reasons.
const (
	ReasonNoID              = "no-id"
	ReasonPermissionDenied  = "permission-denied"
	ReasonMediaDeleteFailed = "media-delete-failed"
)

type GeoPhotoRepository interface {
	// Insert stores a new record and returns its assigned identity.
	// It never emits change events; the capture pipeline owns "created".
	Insert(ctx context.Context, photo *GeoPhoto) (int64, error)

	// UpdateNote overwrites the note of an existing record and emits an
	// "updated" event. Returns ErrNotFound if the identity does not exist.
	UpdateNote(ctx context.Context, id int64, note string) error

	// ListRecent returns up to limit records, newest first. It is a
	// scan-and-repair read: records whose app-private file has been removed
	// behind our back are deleted as a side effect (emitting "deleted"),
	// so the result may be shorter than limit even when more rows exist.
	ListRecent(ctx context.Context, limit int) ([]*GeoPhoto, error)

	// ListAll returns every record, newest first, without the repair pass.
	ListAll(ctx context.Context) ([]*GeoPhoto, error)

	// DeleteWithAsset removes the backing media asset and file first, and
	// the record only if that succeeded or there was nothing to remove.
	DeleteWithAsset(ctx context.Context, photo *GeoPhoto) (DeleteResult, error)
}
