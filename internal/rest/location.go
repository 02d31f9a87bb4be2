package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sherryumlah/geoPhoto/api"
	"github.com/sherryumlah/geoPhoto/geophoto/application"
)

type LocationAPI struct {
	location *application.LocationService
}

// GetStatus returns the current fix, address, and loading/error state.
func (l *LocationAPI) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, toLocationStatus(l.location.Snapshot()))
}

// Refetch runs a full fetch cycle and returns the resulting state. The cycle
// runs synchronously; a slow geocoder shows up as a slow response, not as a
// Loading=true snapshot.
func (l *LocationAPI) Refetch(c *gin.Context) {
	l.location.Refetch(c.Request.Context())
	c.JSON(http.StatusOK, toLocationStatus(l.location.Snapshot()))
}

func toLocationStatus(snap application.LocationSnapshot) api.LocationStatus {
	status := api.LocationStatus{
		Loading: snap.Loading,
		Error:   snap.ErrMsg,
	}

	if snap.Fix != nil {
		status.Latitude = &snap.Fix.Latitude
		status.Longitude = &snap.Fix.Longitude
		status.Accuracy = &snap.Fix.Accuracy
	}
	if snap.Address != nil {
		status.City = snap.Address.City
		status.Region = snap.Address.Region
		status.Country = snap.Address.Country
	}

	return status
}
