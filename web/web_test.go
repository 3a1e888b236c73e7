package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ambush3/SkateSpotApp/db"
	"github.com/Ambush3/SkateSpotApp/models"
	"github.com/Ambush3/SkateSpotApp/utils"

	"github.com/gin-gonic/gin"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := db.OpenSQLite(fmt.Sprintf("file:web_%s?mode=memory&cache=shared", t.Name())); err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := models.Init(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	router := gin.New()
	router.Use(utils.CacheHeaders(utils.CacheNoCache))
	Register(router)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSpotsView(t *testing.T) {
	router := setupRouter(t)
	if w := get(router, "/w/spots/"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "No spots yet") {
		t.Fatalf("empty list: %d %s", w.Code, w.Body.String())
	}

	spot := &models.Spot{Name: "Love <Park>", Lat: 39.9543, Lng: -75.1657}
	if _, err := models.SpotCreateWithRating(spot, 4); err != nil {
		t.Fatalf("SpotCreateWithRating() error = %v", err)
	}
	w := get(router, "/w/spots/")
	if !strings.Contains(w.Body.String(), "Love &lt;Park&gt;") || !strings.Contains(w.Body.String(), "/w/spot/"+spot.ID+"/") {
		t.Errorf("list body = %s", w.Body.String())
	}

	w = get(router, "/w/spot/"+spot.ID+"/")
	if w.Code != http.StatusOK {
		t.Fatalf("spot status = %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "★★★★☆ 4.0 (1)") {
		t.Errorf("spot body = %s", body)
	}
	if got := w.Header().Get("cache-control"); got != "no-cache" {
		t.Errorf("cache-control = %q, want no-cache", got)
	}
}

func TestSpotViewNotFound(t *testing.T) {
	router := setupRouter(t)
	w := get(router, "/w/spot/missing/")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), models.ErrSpotNotFound.Error()) {
		t.Errorf("not found: %d %s", w.Code, w.Body.String())
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		average float64
		want    string
	}{
		{0, "☆☆☆☆☆"},
		{2.4, "★★☆☆☆"},
		{2.5, "★★★☆☆"},
		{5, "★★★★★"},
	}
	for _, tt := range tests {
		if got := stars(tt.average); got != tt.want {
			t.Errorf("stars(%v) = %q, want %q", tt.average, got, tt.want)
		}
	}
}
