package places

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

const sampleResponse = `{
  "elements": [
    {"type": "node", "id": 1, "lat": 45.52, "lon": -122.66, "tags": {"shop": "skate", "name": "Cal Skate"}},
    {"type": "way", "id": 2, "center": {"lat": 45.53, "lon": -122.67}, "tags": {"leisure": "skatepark"}},
    {"type": "relation", "id": 3, "tags": {"leisure": "skatepark", "name": "No coordinates"}},
    {"type": "node", "id": 4, "lat": 45.5231, "lon": -122.6655, "tags": {"sport": "skateboard", "name": "Burnside"}}
  ]
}`

func decodeSample(t *testing.T) []overpassElement {
	t.Helper()
	var data overpassResponse
	if err := json.Unmarshal([]byte(sampleResponse), &data); err != nil {
		t.Fatalf("Failed to decode sample: %v", err)
	}
	return data.Elements
}

func TestNormalize(t *testing.T) {
	result := Normalize(decodeSample(t), 45.5231, -122.6655)

	if len(result) != 3 {
		t.Fatalf("len = %d, want 3 (element without coordinates dropped)", len(result))
	}
	for _, p := range result {
		if p.ID == "relation/3" {
			t.Errorf("element without coordinates was kept: %+v", p)
		}
	}
	// sorted by distance: the query point itself first
	if result[0].ID != "node/4" || result[0].Distance != 0 {
		t.Errorf("first = %+v", result[0])
	}
	byID := map[string]Place{}
	for _, p := range result {
		byID[p.ID] = p
	}
	way := byID["way/2"]
	if way.Lat != 45.53 || way.Lon != -122.67 {
		t.Errorf("way center = %v,%v", way.Lat, way.Lon)
	}
	if way.Name != "Skatepark" || way.Category != CategorySkatepark {
		t.Errorf("way name/category = %q/%q", way.Name, way.Category)
	}
	if shop := byID["node/1"]; shop.Name != "Cal Skate" || shop.Category != CategoryShop {
		t.Errorf("shop = %+v", shop)
	}
}

func TestNormalizeKeepsZeroCoordinates(t *testing.T) {
	zero := 0.0
	result := Normalize([]overpassElement{{Type: "node", ID: 9, Lat: &zero, Lon: &zero}}, 0, 0)
	if len(result) != 1 {
		t.Fatalf("len = %d, want 1", len(result))
	}
	if result[0].Tags == nil {
		t.Error("Tags should never be nil")
	}
}

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(45.5231, -122.6655, 5000)
	for _, want := range []string{
		"[out:json][timeout:25];",
		`nwr["shop"="skate"](around:5000,45.5231,-122.6655);`,
		`nwr["leisure"="skatepark"](around:5000,45.5231,-122.6655);`,
		`nwr["sport"="skateboard"](around:5000,45.5231,-122.6655);`,
		"out center tags;",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}
}

func TestClampRadius(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 5000},
		{-1, 5000},
		{10, MinRadius},
		{2500, 2500},
		{1e6, MaxRadius},
		{math.NaN(), 5000},
		{math.Inf(1), MaxRadius},
		{math.Inf(-1), 5000},
	}
	for _, tt := range tests {
		if got := ClampRadius(tt.in); got != tt.want {
			t.Errorf("ClampRadius(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if query := BuildQuery(45.5, -122.6, ClampRadius(math.NaN())); !strings.Contains(query, "(around:5000,45.5,-122.6)") {
		t.Errorf("BuildQuery() with NaN radius = %s", query)
	}
}

func TestClient_Nearby(t *testing.T) {
	var method, contentType, query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		values, _ := url.ParseQuery(string(body))
		query = values.Get("data")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient()
	client.Endpoint = server.URL
	result, err := client.Nearby(context.Background(), 45.5231, -122.6655, 1000)
	if err != nil {
		t.Fatalf("Nearby() error = %v", err)
	}
	if method != http.MethodPost || contentType != "application/x-www-form-urlencoded" {
		t.Errorf("request = %s %s", method, contentType)
	}
	if !strings.Contains(query, "around:1000,45.5231,-122.6655") {
		t.Errorf("query = %s", query)
	}
	if len(result) != 3 {
		t.Errorf("len = %d, want 3", len(result))
	}
}

func TestClient_NearbyErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"gateway timeout", http.StatusGatewayTimeout, ""},
		{"too many requests", http.StatusTooManyRequests, "rate limited"},
		{"bad json", http.StatusOK, "<html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()
			client := NewClient()
			client.Endpoint = server.URL
			if _, err := client.Nearby(context.Background(), 1, 1, 1000); err == nil {
				t.Error("Nearby() expected error")
			}
		})
	}
}

func TestClient_NearbyCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()
	client := NewClient()
	client.Endpoint = server.URL
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Nearby(ctx, 1, 1, 1000); err == nil {
		t.Error("Nearby() expected error for cancelled context")
	}
}
