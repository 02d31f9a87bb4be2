package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sherryumlah/geoPhoto/geophoto/domain"
	"github.com/sherryumlah/geoPhoto/shared/events"
)

// Warning kinds reported on a CaptureResult for the non-fatal steps.
const (
	WarnMediaSaveFailed     = "media-save-failed"
	WarnMediaPermission     = "media-permission-denied"
	WarnRecordPersistFailed = "record-persist-failed"
)

// CaptureResult describes one finished capture cycle. A cycle "succeeds" as
// soon as the image is acquired; MediaSaved and RecordSaved report how far
// the best-effort tail got, with Warnings naming what fell over.
type CaptureResult struct {
	PhotoID     int64
	URI         string
	AssetID     *string
	MediaSaved  bool
	RecordSaved bool
	Warnings    []string
}

// CaptureService orchestrates one capture cycle: acquire the image, file it
// into the device media library under an address/year-month album, persist
// the record, announce it, and open the note prompt. Only the image
// acquisition itself is fatal; everything after is best-effort.
type CaptureService struct {
	camera      domain.Camera
	location    *LocationService
	media       domain.MediaLibrary
	repo        domain.GeoPhotoRepository
	bus         *events.Bus
	albumPrefix string

	capturing atomic.Bool

	mu            sync.Mutex
	pendingNoteID *int64
}

func NewCaptureService(
	camera domain.Camera,
	location *LocationService,
	media domain.MediaLibrary,
	repo domain.GeoPhotoRepository,
	bus *events.Bus,
	albumPrefix string,
) *CaptureService {
	if albumPrefix == "" {
		albumPrefix = domain.DefaultAlbumPrefix
	}

	return &CaptureService{
		camera:      camera,
		location:    location,
		media:       media,
		repo:        repo,
		bus:         bus,
		albumPrefix: albumPrefix,
	}
}

// Capture runs one capture cycle. A trigger while the camera is not ready or
// a capture is already in flight is dropped; callers treat the sentinel
// errors as no-ops. A double-tap on the shutter yields exactly one capture.
func (s *CaptureService) Capture(ctx context.Context) (*CaptureResult, error) {
	if s.camera == nil || !s.camera.Ready() {
		return nil, domain.ErrCameraNotReady
	}

	if !s.capturing.CompareAndSwap(false, true) {
		return nil, domain.ErrCaptureInFlight
	}
	defer s.capturing.Store(false)

	uri, err := s.camera.Capture(ctx)
	if err != nil {
		// The only fatal step: no image, no record, cycle over
		return nil, fmt.Errorf("capture failed: %w", err)
	}

	result := &CaptureResult{URI: uri}

	snap := s.location.Snapshot()
	takenAt := time.Now().UTC()

	assetID := s.saveToLibrary(ctx, uri, snap.Address, takenAt, result)

	photo := &domain.GeoPhoto{
		URI:          uri,
		TakenAt:      takenAt,
		MediaAssetID: assetID,
	}
	if snap.Fix != nil {
		photo.Latitude = &snap.Fix.Latitude
		photo.Longitude = &snap.Fix.Longitude
	}
	if snap.Address != nil {
		photo.City = snap.Address.City
		photo.Region = snap.Address.Region
		photo.Country = snap.Address.Country
	}

	id, err := s.repo.Insert(ctx, photo)
	if err != nil {
		// The image exists on disk, so the capture still "succeeded" from the
		// user's perspective; no durable record is a reported degradation
		log.Error().Err(err).Str("uri", uri).Msg("Failed to persist geo photo record")
		result.Warnings = append(result.Warnings, WarnRecordPersistFailed)
		return result, nil
	}

	result.PhotoID = id
	result.RecordSaved = true

	s.bus.Emit(events.PhotoCreated, events.Payload{ID: id})

	s.mu.Lock()
	s.pendingNoteID = &id
	s.mu.Unlock()

	return result, nil
}

// saveToLibrary files the captured image into the external media store inside
// the album for the current address and month. Any failure here is logged and
// the pipeline proceeds without a media asset id.
func (s *CaptureService) saveToLibrary(
	ctx context.Context,
	uri string,
	address *domain.Address,
	takenAt time.Time,
	result *CaptureResult,
) *string {
	granted, err := s.media.RequestPermission(ctx)
	if err != nil || !granted {
		log.Warn().Err(err).
			Msg("Media permission not granted; photo will not appear in the device gallery")
		result.Warnings = append(result.Warnings, WarnMediaPermission)
		return nil
	}

	asset, err := s.media.CreateAsset(ctx, uri)
	if err != nil {
		log.Warn().Err(err).Str("uri", uri).Msg("Could not save to media library")
		result.Warnings = append(result.Warnings, WarnMediaSaveFailed)
		return nil
	}

	var country, region *string
	if address != nil {
		country = address.Country
		region = address.Region
	}
	albumName := domain.AlbumName(s.albumPrefix, country, region, takenAt)

	// Filing failures leave the asset in the library unfiled; the asset id is
	// still the linkage we store
	album, err := s.media.FindAlbum(ctx, albumName)
	if err != nil {
		log.Warn().Err(err).Str("album", albumName).Msg("Failed to look up album")
	}

	if album == nil {
		if _, err := s.media.CreateAlbum(ctx, albumName, asset); err != nil {
			log.Warn().Err(err).Str("album", albumName).Msg("Failed to create album")
		}
	} else {
		if err := s.media.AddToAlbum(ctx, asset, album); err != nil {
			log.Warn().Err(err).Str("album", albumName).Msg("Failed to add to album")
		}
	}

	result.MediaSaved = true
	return &asset.ID
}

// PendingNoteID returns the identity the open note prompt is for, or nil
// when no prompt is active.
func (s *CaptureService) PendingNoteID() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingNoteID == nil {
		return nil
	}
	id := *s.pendingNoteID
	return &id
}

// SaveNote attaches a free-text note to the photo the open prompt is for and
// dismisses the prompt. Without an active prompt it does nothing. The text is
// trimmed; text that trims to nothing dismisses without an update. A failed
// update is logged but never blocks dismissal.
func (s *CaptureService) SaveNote(ctx context.Context, text string) {
	s.mu.Lock()
	id := s.pendingNoteID
	s.pendingNoteID = nil
	s.mu.Unlock()

	if id == nil {
		return
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	if err := s.repo.UpdateNote(ctx, *id, trimmed); err != nil {
		log.Warn().Err(err).Int64("id", *id).Msg("Failed to save note")
	}
}

// DismissNote closes the note prompt without saving.
func (s *CaptureService) DismissNote() {
	s.mu.Lock()
	s.pendingNoteID = nil
	s.mu.Unlock()
}
