package handlers

import (
	"net/http"

	"github.com/Ambush3/SkateSpotApp/utils"

	"github.com/gin-gonic/gin"
)

// Register adds all API end-points to the router
func Register(router *gin.Engine) {
	router.GET("/ping", Ping)
	router.GET("/metrics", utils.MetricsHandler())
	// Spots
	router.GET("/spot/list", SpotList)
	router.POST("/spot/create", SpotCreate)
	router.POST("/spot/delete", SpotDelete)
	router.GET("/spot/details", SpotDetails)
	router.GET("/spot/feed", SpotFeed)
	// Reviews
	router.GET("/review/list", ReviewList)
	router.POST("/review/create", ReviewCreate)
	// Skate shops and parks from OpenStreetMap
	router.GET("/places/nearby", PlacesNearby)
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "ok"})
}
