// Package places finds skate shops and parks around a point using the Overpass API.
// Results are never stored.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Ambush3/SkateSpotApp/config"
	"github.com/Ambush3/SkateSpotApp/utils"
)

const (
	MinRadius = 100.0
	MaxRadius = 50000.0

	CategoryShop      = "skate_shop"
	CategorySkatepark = "skatepark"
	CategorySkate     = "skateboarding"
)

// categories requested in a single query, tag key and value
var categories = []struct {
	key, value, category, label string
}{
	{"shop", "skate", CategoryShop, "Skate shop"},
	{"leisure", "skatepark", CategorySkatepark, "Skatepark"},
	{"sport", "skateboard", CategorySkate, "Skate spot"},
}

type Place struct {
	ID       string            `json:"id"` // <osm type>/<osm id>, e.g. node/42
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Distance float64           `json:"distance"` // meters from the query point
	Tags     map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// overpassElement is a node, way or relation. Nodes carry lat/lon,
// ways and relations only a center (requested with "out center")
type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// ClampRadius applies the default radius for non-positive or NaN values and keeps it within limits
func ClampRadius(radius float64) float64 {
	if math.IsNaN(radius) || radius <= 0 {
		radius = config.PLACES_RADIUS
	}
	if math.IsNaN(radius) || radius < MinRadius {
		return MinRadius
	}
	if radius > MaxRadius {
		return MaxRadius
	}
	return radius
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildQuery returns the Overpass QL for all categories within radius meters of lat/lon
func BuildQuery(lat, lon, radius float64) string {
	around := fmt.Sprintf("(around:%d,%s,%s)", int(radius), formatCoord(lat), formatCoord(lon))
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "  nwr[%q=%q]%s;\n", c.key, c.value, around)
	}
	b.WriteString(");\nout center tags;")
	return b.String()
}

func categoryOf(tags map[string]string) (category, label string) {
	for _, c := range categories {
		if tags[c.key] == c.value {
			return c.category, c.label
		}
	}
	return "", "Skate place"
}

// Normalize converts Overpass elements into places sorted by distance from lat/lon.
// Elements without coordinates or a center are dropped.
func Normalize(elements []overpassElement, lat, lon float64) []Place {
	result := make([]Place, 0, len(elements))
	for _, e := range elements {
		var pLat, pLon float64
		switch {
		case e.Lat != nil && e.Lon != nil:
			pLat, pLon = *e.Lat, *e.Lon
		case e.Center != nil:
			pLat, pLon = e.Center.Lat, e.Center.Lon
		default:
			continue
		}
		tags := e.Tags
		if tags == nil {
			tags = map[string]string{}
		}
		category, label := categoryOf(tags)
		name := tags["name"]
		if name == "" {
			name = label
		}
		result = append(result, Place{
			ID:       e.Type + "/" + strconv.FormatInt(e.ID, 10),
			Name:     name,
			Category: category,
			Lat:      pLat,
			Lon:      pLon,
			Distance: utils.HaversineDistance(lat, lon, pLat, pLon),
			Tags:     tags,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Distance < result[j].Distance
	})
	return result
}

// Client queries a single Overpass endpoint. There are no retries and nothing is cached.
type Client struct {
	Endpoint  string
	UserAgent string
	HTTP      *http.Client
}

func NewClient() *Client {
	return &Client{
		Endpoint:  config.OVERPASS_URL,
		UserAgent: config.USER_AGENT,
		HTTP:      &http.Client{Timeout: time.Duration(config.HTTP_TIMEOUT_SECONDS) * time.Second},
	}
}

// Nearby returns skate shops, skateparks and skateboarding places around lat/lon
func (c *Client) Nearby(ctx context.Context, lat, lon, radius float64) ([]Place, error) {
	radius = ClampRadius(radius)
	form := url.Values{"data": {BuildQuery(lat, lon, radius)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.UserAgent)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	utils.CountUpstreamCall("overpass", err)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}
	var data overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("overpass response: %w", err)
	}
	result := Normalize(data.Elements, lat, lon)
	slog.Debug("Overpass query done", "elements", len(data.Elements), "places", len(result),
		"radius", radius, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
