package handlers

import (
	"errors"
	"net/http"

	"github.com/Ambush3/SkateSpotApp/models"

	"github.com/gin-gonic/gin"
)

// Response is the body of every failed request; the app shows Error as is
type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined responses
	OKResponse                 = Response{}
	MissingCoordinatesResponse = Response{"location is required"}
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrBlankName),
		errors.Is(err, models.ErrInvalidCoordinates),
		errors.Is(err, models.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSpotNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// abortWithError writes the error message with the matching status code
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errorStatus(err), Response{err.Error()})
}
