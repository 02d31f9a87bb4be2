package rest

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sherryumlah/geoPhoto/api"
	"github.com/sherryumlah/geoPhoto/geophoto/application"
	"github.com/sherryumlah/geoPhoto/geophoto/domain"
	"github.com/sherryumlah/geoPhoto/geophoto/media"
)

const (
	defaultGalleryLimit = 60
	timeFormat          = time.RFC3339Nano
)

type PhotosAPI struct {
	repo    domain.GeoPhotoRepository
	capture *application.CaptureService
	camera  *media.FileCamera
}

// GetRecent serves the gallery read: newest-first, bounded, with the
// repository's reconciliation pass running underneath.
func (p *PhotosAPI) GetRecent(c *gin.Context) {
	limit := defaultGalleryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.String(http.StatusBadRequest, "invalid limit %q", raw)
			return
		}
		limit = parsed
	}

	photos, err := p.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list recent photos")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toAPIPhotos(photos))
}

// GetAll serves the browse read: every record, no reconciliation.
func (p *PhotosAPI) GetAll(c *gin.Context) {
	photos, err := p.repo.ListAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list photos")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toAPIPhotos(photos))
}

// Capture ingests a multipart image upload as one capture cycle. The upload
// stands in for the device camera feed: it is staged, captured into the
// app-private photo directory, and run through the full pipeline.
func (p *PhotosAPI) Capture(c *gin.Context) {
	upload, err := c.FormFile("image")
	if err != nil {
		c.String(http.StatusBadRequest, "missing image upload")
		return
	}

	staged := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(upload.Filename))
	if err := c.SaveUploadedFile(upload, staged); err != nil {
		log.Error().Err(err).Msg("Failed to stage uploaded image")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	defer os.Remove(staged)

	p.camera.Stage(staged)

	result, err := p.capture.Capture(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCaptureInFlight):
			c.String(http.StatusConflict, "a capture is already in flight")
		case errors.Is(err, domain.ErrCameraNotReady):
			c.String(http.StatusServiceUnavailable, "camera is not ready")
		default:
			log.Error().Err(err).Msg("Capture failed")
			c.AbortWithStatus(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, api.CaptureResponse{
		ID:          result.PhotoID,
		URI:         result.URI,
		MediaSaved:  result.MediaSaved,
		RecordSaved: result.RecordSaved,
		Warnings:    result.Warnings,
	})
}

// PutNote overwrites the note on an existing photo.
func (p *PhotosAPI) PutNote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("photoId"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid photo id %q", c.Param("photoId"))
		return
	}

	var update api.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.String(http.StatusBadRequest, "invalid note body: %s", err.Error())
		return
	}

	if err := p.repo.UpdateNote(c.Request.Context(), id, update.Note); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.String(http.StatusNotFound, "no photo with id %d", id)
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("Failed to update note")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete runs the two-phase delete. A refusal to delete the backing media is
// surfaced as a conflict so the caller knows the record was kept on purpose.
func (p *PhotosAPI) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("photoId"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid photo id %q", c.Param("photoId"))
		return
	}

	photo, err := p.findPhoto(c, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to load photo for delete")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if photo == nil {
		c.String(http.StatusNotFound, "no photo with id %d", id)
		return
	}

	result, err := p.repo.DeleteWithAsset(c.Request.Context(), photo)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to delete photo")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if !result.OK {
		status := http.StatusInternalServerError
		if result.Reason == domain.ReasonPermissionDenied {
			status = http.StatusConflict
		}
		c.JSON(status, api.DeleteResponse{OK: false, Reason: result.Reason})
		return
	}

	c.JSON(http.StatusOK, api.DeleteResponse{OK: true})
}

func (p *PhotosAPI) findPhoto(c *gin.Context, id int64) (*domain.GeoPhoto, error) {
	photos, err := p.repo.ListAll(c.Request.Context())
	if err != nil {
		return nil, err
	}

	for _, photo := range photos {
		if photo.ID == id {
			return photo, nil
		}
	}
	return nil, nil
}

func toAPIPhotos(photos []*domain.GeoPhoto) []api.GeoPhoto {
	out := make([]api.GeoPhoto, 0, len(photos))
	for _, photo := range photos {
		out = append(out, toAPIPhoto(photo))
	}
	return out
}

func toAPIPhoto(photo *domain.GeoPhoto) api.GeoPhoto {
	return api.GeoPhoto{
		ID:           photo.ID,
		URI:          photo.URI,
		TakenAt:      photo.TakenAt.Format(timeFormat),
		Latitude:     photo.Latitude,
		Longitude:    photo.Longitude,
		City:         photo.City,
		Region:       photo.Region,
		Country:      photo.Country,
		Note:         photo.Note,
		MediaAssetID: photo.MediaAssetID,
	}
}
