package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Ambush3/SkateSpotApp/models"
	"github.com/Ambush3/SkateSpotApp/places"

	"github.com/gin-gonic/gin"
)

// PlaceFinder looks up skate shops and parks around a point
type PlaceFinder interface {
	Nearby(ctx context.Context, lat, lon, radius float64) ([]places.Place, error)
}

// Places is used by PlacesNearby, replaced in tests
var Places PlaceFinder = places.NewClient()

type PlacesRequest struct {
	Lat    *float64 `form:"lat"`
	Lng    *float64 `form:"lng"`
	Radius float64  `form:"radius"` // meters, optional
}

// PlacesNearby proxies a single Overpass query, the result is not stored
func PlacesNearby(c *gin.Context) {
	r := PlacesRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.Lat == nil || r.Lng == nil {
		c.JSON(http.StatusBadRequest, MissingCoordinatesResponse)
		return
	}
	if !models.ValidCoordinates(*r.Lat, *r.Lng) {
		c.JSON(http.StatusBadRequest, Response{models.ErrInvalidCoordinates.Error()})
		return
	}
	result, err := Places.Nearby(c.Request.Context(), *r.Lat, *r.Lng, r.Radius)
	if err != nil {
		slog.Warn("Nearby places failed", "error", err)
		c.JSON(http.StatusBadGateway, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
