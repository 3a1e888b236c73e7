package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/Ambush3/SkateSpotApp/config"
	"github.com/Ambush3/SkateSpotApp/handlers"
	"github.com/Ambush3/SkateSpotApp/models"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templates embed.FS

func stars(average float64) string {
	full := int(average + 0.5)
	result := ""
	for i := models.MinRating; i <= models.MaxRating; i++ {
		if i <= full {
			result += "★"
		} else {
			result += "☆"
		}
	}
	return result
}

var funcs = template.FuncMap{
	"stars":  stars,
	"rating": func(rating int) string { return stars(float64(rating)) },
	"date": func(ms int64) string {
		return time.UnixMilli(ms).UTC().Format(time.DateOnly)
	},
}

// Register adds the list view, used where no map can be rendered
func Register(router *gin.Engine) {
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(funcs).ParseFS(templates, "templates/*.tmpl")))
	router.GET("/w/spots/", SpotsView)
	router.GET("/w/spot/:id/", SpotView)
	router.GET("/robots.txt", DisallowRobots)
}

func SpotsView(c *gin.Context) {
	spots, err := models.SpotList(config.SPOT_LIST_LIMIT)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{"error": err.Error()})
		return
	}
	result := make([]handlers.SpotInfo, 0, len(spots))
	for _, s := range spots {
		result = append(result, handlers.NewSpotInfo(s))
	}
	c.HTML(http.StatusOK, "spots.tmpl", gin.H{
		"spots": result,
	})
}

func SpotView(c *gin.Context) {
	spot, err := models.SpotFind(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrSpotNotFound) {
			status = http.StatusNotFound
		}
		c.HTML(status, "error.tmpl", gin.H{"error": err.Error()})
		return
	}
	reviews, err := models.ReviewsForSpot(spot.ID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.tmpl", gin.H{"error": err.Error()})
		return
	}
	c.HTML(http.StatusOK, "spot.tmpl", gin.H{
		"spot":    handlers.NewSpotInfo(spot),
		"reviews": reviews,
		"average": models.AverageRating(reviews),
	})
}

func DisallowRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
}
