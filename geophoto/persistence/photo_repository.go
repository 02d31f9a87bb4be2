package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sherryumlah/geoPhoto/geophoto/domain"
	"github.com/sherryumlah/geoPhoto/shared/db"
	"github.com/sherryumlah/geoPhoto/shared/events"
)

var _ domain.GeoPhotoRepository = (*SQLiteGeoPhotoRepository)(nil)

const defaultRecentLimit = 50

// SQLiteGeoPhotoRepository implements domain.GeoPhotoRepository over a SQLite
// store, reconciled against the filesystem and the external media library.
// The media library and filesystem are outside our control; every interaction
// with them is best-effort.
type SQLiteGeoPhotoRepository struct {
	db          *sql.DB
	bus         *events.Bus
	files       domain.FileStore
	media       domain.MediaLibrary
	albumPrefix string
}

// NewGeoPhotoRepository creates a new SQLiteGeoPhotoRepository from a standard
// sql.DB plus the collaborators needed for reconciliation and deletion.
func NewGeoPhotoRepository(
	sqlDB *sql.DB,
	bus *events.Bus,
	files domain.FileStore,
	media domain.MediaLibrary,
	albumPrefix string,
) *SQLiteGeoPhotoRepository {
	if albumPrefix == "" {
		albumPrefix = domain.DefaultAlbumPrefix
	}

	return &SQLiteGeoPhotoRepository{
		db:          sqlDB,
		bus:         bus,
		files:       files,
		media:       media,
		albumPrefix: albumPrefix,
	}
}

const insertGeoPhotoQuery = `
	INSERT INTO geo_photos
		(uri, taken_at, latitude, longitude, city, region, country, note, media_asset_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Insert stores a new record and returns its assigned identity. It does not
// emit events; the capture pipeline announces "created" once the whole cycle
// has succeeded.
func (r *SQLiteGeoPhotoRepository) Insert(ctx context.Context, photo *domain.GeoPhoto) (int64, error) {
	if photo == nil {
		return 0, fmt.Errorf("photo cannot be nil")
	}

	if photo.URI == "" {
		return 0, fmt.Errorf("photo URI cannot be empty")
	}

	result, err := r.db.ExecContext(ctx, insertGeoPhotoQuery,
		photo.URI,
		photo.TakenAt.UTC().Format(time.RFC3339Nano),
		nullFloat(photo.Latitude),
		nullFloat(photo.Longitude),
		nullString(photo.City),
		nullString(photo.Region),
		nullString(photo.Country),
		nullString(photo.Note),
		nullString(photo.MediaAssetID),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert geo photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return id, nil
}

const updateNoteQuery = `
	UPDATE geo_photos SET note = ? WHERE id = ?
`

// UpdateNote overwrites the note of an existing record and emits an "updated"
// event. The note is the only field mutable after insert.
func (r *SQLiteGeoPhotoRepository) UpdateNote(ctx context.Context, id int64, note string) error {
	result, err := r.db.ExecContext(ctx, updateNoteQuery, note, id)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return domain.ErrNotFound
	}

	r.bus.Emit(events.PhotoUpdated, events.Payload{ID: id, Note: note})

	return nil
}

const listRecentQuery = `
	SELECT id, uri, taken_at, latitude, longitude, city, region, country, note, media_asset_id
	FROM geo_photos
	ORDER BY datetime(taken_at) DESC
	LIMIT ?
`

// ListRecent returns up to limit records, newest first, after a scan-and-repair
// pass: any record whose app-private file has been removed behind our back
// (e.g. by the Photos app or a cloud sync) is deleted from the store and a
// "deleted" event is emitted for it. The result may therefore be shorter than
// limit even when more rows exist in raw storage.
func (r *SQLiteGeoPhotoRepository) ListRecent(ctx context.Context, limit int) ([]*domain.GeoPhoto, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, listRecentQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent geo photos: %w", err)
	}
	defer rows.Close()

	photos, err := scanGeoPhotos(rows)
	if err != nil {
		return nil, err
	}

	// Scan phase: find rows whose backing file is gone
	kept := make([]*domain.GeoPhoto, 0, len(photos))
	missing := make([]*domain.GeoPhoto, 0)

	for _, photo := range photos {
		if !strings.HasPrefix(photo.URI, "file://") {
			kept = append(kept, photo)
			continue
		}

		exists, err := r.files.Exists(ctx, photo.URI)
		if err != nil {
			log.Warn().Err(err).Str("uri", photo.URI).Msg("Could not stat file for geo photo")
			kept = append(kept, photo)
			continue
		}

		if !exists {
			missing = append(missing, photo)
			continue
		}

		kept = append(kept, photo)
	}

	// Repair phase: prune the orphaned rows in one transaction, then announce
	if len(missing) > 0 {
		err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
			executor := db.GetExecutor(txCtx, r.db)
			for _, photo := range missing {
				if _, err := executor.ExecContext(txCtx, deleteGeoPhotoQuery, photo.ID); err != nil {
					return fmt.Errorf("failed to prune geo photo %d: %w", photo.ID, err)
				}
			}
			return nil
		})

		if err != nil {
			// The orphans stay in storage but are still withheld from the result
			log.Warn().Err(err).Int("count", len(missing)).Msg("Failed to prune orphaned geo photos")
		} else {
			for _, photo := range missing {
				r.bus.Emit(events.PhotoDeleted, events.Payload{ID: photo.ID})
			}
		}
	}

	return kept, nil
}

const listAllQuery = `
	SELECT id, uri, taken_at, latitude, longitude, city, region, country, note, media_asset_id
	FROM geo_photos
	ORDER BY datetime(taken_at) DESC
`

// ListAll returns every record, newest first, without the reconciliation pass.
func (r *SQLiteGeoPhotoRepository) ListAll(ctx context.Context) ([]*domain.GeoPhoto, error) {
	rows, err := r.db.QueryContext(ctx, listAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list geo photos: %w", err)
	}
	defer rows.Close()

	return scanGeoPhotos(rows)
}

const deleteGeoPhotoQuery = `
	DELETE FROM geo_photos WHERE id = ?
`

// DeleteWithAsset removes a record in two phases: first the backing media
// asset and app-private file, then the row. If the media permission is denied
// the row is left intact and the result says so, because silently dropping
// the user's only visible reference to a photo they could not actually remove
// from their device would lie to them.
func (r *SQLiteGeoPhotoRepository) DeleteWithAsset(ctx context.Context, photo *domain.GeoPhoto) (domain.DeleteResult, error) {
	if photo == nil || photo.ID == 0 {
		log.Warn().Msg("DeleteWithAsset called without id")
		return domain.DeleteResult{OK: false, Reason: domain.ReasonNoID}, nil
	}

	// Phase A: media asset and file first
	result := r.deletePhysical(ctx, photo)
	if !result.OK {
		return result, nil
	}

	// Phase B: the row, only now that the physical side is clean
	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, deleteGeoPhotoQuery, photo.ID)
		return err
	})
	if err != nil {
		return domain.DeleteResult{OK: false}, fmt.Errorf("failed to delete geo photo record: %w", err)
	}

	r.bus.Emit(events.PhotoDeleted, events.Payload{ID: photo.ID})

	return domain.DeleteResult{OK: true}, nil
}

// deletePhysical removes the media-library asset (matching the stored asset id
// first, then falling back to a filename match inside the album the photo was
// filed under) and the app-private file. A missing asset is success; a denied
// permission is not.
func (r *SQLiteGeoPhotoRepository) deletePhysical(ctx context.Context, photo *domain.GeoPhoto) domain.DeleteResult {
	granted, err := r.media.RequestPermission(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Media permission request failed")
	}
	canUseMedia := err == nil && granted

	assetIDs := make([]string, 0, 2)

	if canUseMedia && photo.MediaAssetID != nil && *photo.MediaAssetID != "" {
		assetIDs = append(assetIDs, *photo.MediaAssetID)
	}

	// Fall back to the album we filed the photo under at capture time
	if canUseMedia {
		albumName := domain.AlbumName(r.albumPrefix, photo.Country, photo.Region, photo.TakenAt)

		album, err := r.media.FindAlbum(ctx, albumName)
		if err != nil {
			log.Warn().Err(err).Str("album", albumName).Msg("Failed to look up album")
		}

		if album != nil {
			assets, err := r.media.ListAssets(ctx, album)
			if err != nil {
				log.Warn().Err(err).Str("album", albumName).Msg("Failed to list album assets")
			}

			wantedFilename := path.Base(photo.URI)
			for _, asset := range assets {
				if asset.URI != photo.URI && asset.Filename != wantedFilename {
					continue
				}
				if !containsString(assetIDs, asset.ID) {
					assetIDs = append(assetIDs, asset.ID)
				}
				break
			}
		}
	}

	if !canUseMedia && (photo.MediaAssetID != nil || photo.URI != "") {
		log.Warn().Int64("id", photo.ID).
			Msg("Media permission not granted; cannot delete from the device library")
		return domain.DeleteResult{OK: false, Reason: domain.ReasonPermissionDenied}
	}

	if canUseMedia && len(assetIDs) > 0 {
		if err := r.media.DeleteAssets(ctx, assetIDs); err != nil {
			log.Warn().Err(err).Strs("assets", assetIDs).Msg("Media library delete failed")

			// The library reports a revoked write grant as an error, not as a
			// denied permission request
			if strings.Contains(err.Error(), "permission") {
				return domain.DeleteResult{OK: false, Reason: domain.ReasonPermissionDenied}
			}

			return domain.DeleteResult{OK: false, Reason: domain.ReasonMediaDeleteFailed}
		}
	}

	// Always try to remove the app-private copy too; losing this race is fine
	if strings.HasPrefix(photo.URI, "file://") {
		if err := r.files.Remove(ctx, photo.URI); err != nil {
			log.Warn().Err(err).Str("uri", photo.URI).Msg("File delete failed")
		}
	}

	return domain.DeleteResult{OK: true}
}

// geoPhotoRow is a private struct used to scan database rows
// It uses sql.Null* types to handle the nullable columns
type geoPhotoRow struct {
	ID           int64           `db:"id"`
	URI          string          `db:"uri"`
	TakenAt      string          `db:"taken_at"`
	Latitude     sql.NullFloat64 `db:"latitude"`
	Longitude    sql.NullFloat64 `db:"longitude"`
	City         sql.NullString  `db:"city"`
	Region       sql.NullString  `db:"region"`
	Country      sql.NullString  `db:"country"`
	Note         sql.NullString  `db:"note"`
	MediaAssetID sql.NullString  `db:"media_asset_id"`
}

// toDomain converts a geoPhotoRow to a domain.GeoPhoto, handling nullable fields
func (gr *geoPhotoRow) toDomain() *domain.GeoPhoto {
	photo := &domain.GeoPhoto{
		ID:  gr.ID,
		URI: gr.URI,
	}

	if takenAt, err := time.Parse(time.RFC3339Nano, gr.TakenAt); err == nil {
		photo.TakenAt = takenAt
	} else {
		log.Warn().Str("taken_at", gr.TakenAt).Int64("id", gr.ID).Msg("Unparseable taken_at timestamp")
	}

	if gr.Latitude.Valid {
		photo.Latitude = &gr.Latitude.Float64
	}
	if gr.Longitude.Valid {
		photo.Longitude = &gr.Longitude.Float64
	}
	if gr.City.Valid {
		photo.City = &gr.City.String
	}
	if gr.Region.Valid {
		photo.Region = &gr.Region.String
	}
	if gr.Country.Valid {
		photo.Country = &gr.Country.String
	}
	if gr.Note.Valid {
		photo.Note = &gr.Note.String
	}
	if gr.MediaAssetID.Valid {
		photo.MediaAssetID = &gr.MediaAssetID.String
	}

	return photo
}

func scanGeoPhotos(rows *sql.Rows) ([]*domain.GeoPhoto, error) {
	photos := make([]*domain.GeoPhoto, 0)

	for rows.Next() {
		var row geoPhotoRow
		err := rows.Scan(
			&row.ID,
			&row.URI,
			&row.TakenAt,
			&row.Latitude,
			&row.Longitude,
			&row.City,
			&row.Region,
			&row.Country,
			&row.Note,
			&row.MediaAssetID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geo photo row: %w", err)
		}
		photos = append(photos, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating geo photo rows: %w", err)
	}

	return photos, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
