package handlers

import (
	"net/http"

	"github.com/Ambush3/SkateSpotApp/models"

	"github.com/gin-gonic/gin"
)

type ReviewCreateRequest struct {
	SpotID  string `form:"spot_id" json:"spot_id" binding:"required"`
	Rating  int    `form:"rating" json:"rating"`
	Comment string `form:"comment" json:"comment"`
}

type ReviewListRequest struct {
	SpotID string `form:"spot_id" binding:"required"`
}

type ReviewSummary struct {
	Reviews []models.Review `json:"reviews"`
	Average float64         `json:"average"`
	Count   int             `json:"count"`
}

type ReviewCreateResponse struct {
	Review  models.Review `json:"review"`
	Average float64       `json:"average"`
	Count   int           `json:"count"`
}

func ReviewList(c *gin.Context) {
	r := ReviewListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if _, err := models.SpotFind(r.SpotID); err != nil {
		abortWithError(c, err)
		return
	}
	reviews, err := models.ReviewsForSpot(r.SpotID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReviewSummary{
		Reviews: reviews,
		Average: models.AverageRating(reviews),
		Count:   len(reviews),
	})
}

// ReviewCreate adds a rating and returns the average over all reviews of the spot
func ReviewCreate(c *gin.Context) {
	r := ReviewCreateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	review, err := models.ReviewCreate(r.SpotID, r.Rating, r.Comment)
	if err != nil {
		abortWithError(c, err)
		return
	}
	reviews, err := models.ReviewsForSpot(r.SpotID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReviewCreateResponse{
		Review:  *review,
		Average: models.AverageRating(reviews),
		Count:   len(reviews),
	})
}
