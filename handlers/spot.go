package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Ambush3/SkateSpotApp/config"
	"github.com/Ambush3/SkateSpotApp/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type SpotInfo struct {
	models.Spot
	CreatedLocal string `json:"created_local"` // creation time in the spot's time zone
}

func NewSpotInfo(s models.Spot) SpotInfo {
	return SpotInfo{
		Spot:         s,
		CreatedLocal: s.GetCreatedTimeInLocation().Format(time.RFC3339),
	}
}

type SpotCreateRequest struct {
	Name        string   `form:"name" json:"name"`
	Description string   `form:"description" json:"description"`
	Lat         *float64 `form:"lat" json:"lat" binding:"required"`
	Lng         *float64 `form:"lng" json:"lng" binding:"required"`
	Rating      int      `form:"rating" json:"rating"` // optional, 0 means no review
}

type SpotCreateResponse struct {
	Response
	Spot   SpotInfo       `json:"spot"`
	Review *models.Review `json:"review,omitempty"`
}

type SpotIDRequest struct {
	ID string `form:"id" json:"id" binding:"required"`
}

type SpotDetailsResponse struct {
	Spot    SpotInfo        `json:"spot"`
	Reviews []models.Review `json:"reviews"`
	Average float64         `json:"average"`
	Count   int             `json:"count"`
}

func SpotList(c *gin.Context) {
	spots, err := models.SpotList(config.SPOT_LIST_LIMIT)
	if err != nil {
		abortWithError(c, err)
		return
	}
	result := make([]SpotInfo, 0, len(spots))
	for _, s := range spots {
		result = append(result, NewSpotInfo(s))
	}
	c.JSON(http.StatusOK, result)
}

// SpotCreate stores a new spot and optionally its first review.
// When only the review fails, the spot is kept and the error is reported with it.
func SpotCreate(c *gin.Context) {
	r := SpotCreateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && (r.Lat == nil || r.Lng == nil) {
			c.JSON(http.StatusBadRequest, MissingCoordinatesResponse)
			return
		}
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	spot := models.Spot{
		Name:        r.Name,
		Description: r.Description,
		Lat:         *r.Lat,
		Lng:         *r.Lng,
	}
	review, err := models.SpotCreateWithRating(&spot, r.Rating)
	var reviewErr *models.ReviewNotSavedError
	if err != nil && !errors.As(err, &reviewErr) {
		abortWithError(c, err)
		return
	}
	info := NewSpotInfo(spot)
	Broadcast(FeedEvent{Type: FeedEventSpotCreated, Spot: &info})
	response := SpotCreateResponse{Spot: info, Review: review}
	if reviewErr != nil {
		slog.Warn("Spot created without review", "spot", spot.ID, "error", reviewErr.Err)
		response.Error = reviewErr.Error()
	}
	c.JSON(http.StatusOK, response)
}

func SpotDelete(c *gin.Context) {
	r := SpotIDRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if err := models.SpotDelete(r.ID); err != nil {
		abortWithError(c, err)
		return
	}
	Broadcast(FeedEvent{Type: FeedEventSpotDeleted, ID: r.ID})
	c.JSON(http.StatusOK, OKResponse)
}

// SpotDetails reloads the spot with all of its reviews, nothing is cached between calls
func SpotDetails(c *gin.Context) {
	r := SpotIDRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	spot, err := models.SpotFind(r.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	reviews, err := models.ReviewsForSpot(spot.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SpotDetailsResponse{
		Spot:    NewSpotInfo(spot),
		Reviews: reviews,
		Average: models.AverageRating(reviews),
		Count:   len(reviews),
	})
}
