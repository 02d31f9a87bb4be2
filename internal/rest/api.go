package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/sherryumlah/geoPhoto/geophoto/application"
	"github.com/sherryumlah/geoPhoto/geophoto/domain"
	"github.com/sherryumlah/geoPhoto/geophoto/media"
)

func NewApi(
	router *gin.Engine,
	repo domain.GeoPhotoRepository,
	capture *application.CaptureService,
	camera *media.FileCamera,
	location *application.LocationService,
) {
	photos := &PhotosAPI{repo: repo, capture: capture, camera: camera}
	loc := &LocationAPI{location: location}

	photosV1 := router.Group("photos/v1")
	{
		photosV1.GET("/", photos.GetRecent)
		photosV1.GET("/all", photos.GetAll)
		photosV1.POST("/capture", photos.Capture)
		photosV1.PUT("/:photoId/note", photos.PutNote)
		photosV1.DELETE("/:photoId", photos.Delete)
	}

	locationV1 := router.Group("location/v1")
	{
		locationV1.GET("/", loc.GetStatus)
		locationV1.POST("/refetch", loc.Refetch)
	}
}
