package locations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Ambush3/SkateSpotApp/config"
	"github.com/Ambush3/SkateSpotApp/models"
	"github.com/Ambush3/SkateSpotApp/utils"
)

const (
	throttling = 3 * time.Second
)

// ErrNoAddress is returned when Nominatim answers that the point has no address (e.g. open sea)
var ErrNoAddress = errors.New("nominatim: no address for location")

type NominatimAddress struct {
	Leisure       string `json:"leisure"`
	Road          string `json:"road"`
	Place         string `json:"place"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Municipality  string `json:"municipality"`
	Province      string `json:"province"`
	State         string `json:"state"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
}

type NominatimLocation struct {
	DisplayName string           `json:"display_name"`
	Address     NominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

func (n *NominatimLocation) GetCity() string {
	for _, v := range []string{n.Address.City, n.Address.Town, n.Address.Village, n.Address.Municipality, n.Address.Province} {
		if v != "" {
			return v
		}
	}
	return n.Address.State
}

func (n *NominatimLocation) GetArea() string {
	if n.Address.Leisure != "" {
		return n.Address.Leisure
	}
	if n.Address.Place != "" {
		return n.Address.Place
	}
	if n.Address.Neighbourhood != "" {
		return n.Address.Neighbourhood
	}
	if n.Address.Suburb != "" {
		return n.Address.Suburb
	}
	a := strings.Split(n.DisplayName, ",")
	city := n.GetCity()
	for i := len(a) - 1; i > 0; i-- {
		if strings.TrimLeft(a[i], " ") == city {
			return strings.TrimLeft(a[i-1], " ")
		}
	}
	if len(a) == 1 || len(a[0]) >= models.MinLocationDisplaySize {
		return a[0]
	}
	return a[0] + "," + a[1]
}

// ToLocation copies the resolved names into a cache record for the given coordinates
func (n *NominatimLocation) ToLocation(lat, long float64) models.Location {
	return models.Location{
		GpsLat:      lat,
		GpsLong:     long,
		Display:     n.DisplayName,
		Area:        n.GetArea(),
		City:        n.GetCity(),
		Country:     n.Address.Country,
		CountryCode: n.Address.CountryCode,
	}
}

// Nominatim is a throttled reverse geocoding client, at most one request per throttling interval
type Nominatim struct {
	BaseURL     string
	UserAgent   string
	Client      *http.Client
	mutex       sync.Mutex
	lastRequest time.Time
	throttling  time.Duration
}

func NewNominatim() *Nominatim {
	return &Nominatim{
		BaseURL:    config.NOMINATIM_URL,
		UserAgent:  config.USER_AGENT,
		Client:     &http.Client{Timeout: time.Duration(config.HTTP_TIMEOUT_SECONDS) * time.Second},
		throttling: throttling,
	}
}

func (n *Nominatim) wait(ctx context.Context) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if d := n.throttling - time.Since(n.lastRequest); d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.lastRequest = time.Now()
	return nil
}

// Reverse resolves the coordinates into an address
func (n *Nominatim) Reverse(ctx context.Context, lat, long float64) (*NominatimLocation, error) {
	if err := n.wait(ctx); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f", strings.TrimRight(n.BaseURL, "/"), lat, long)
	slog.Debug("Nominatim request", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept-language", "en")
	req.Header.Set("User-Agent", n.UserAgent)
	resp, err := n.Client.Do(req)
	utils.CountUpstreamCall("nominatim", err)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}
	result := &NominatimLocation{}
	if err = json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("nominatim response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAddress, result.Error)
	}
	return result, nil
}
