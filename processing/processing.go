package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ambush3/SkateSpotApp/locations"
	"github.com/Ambush3/SkateSpotApp/models"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const idleTime = 30 * time.Second

// Geocoder resolves coordinates into an address
type Geocoder interface {
	Reverse(ctx context.Context, lat, long float64) (*locations.NominatimLocation, error)
}

// resolved keeps locations already seen by this process, keyed by rounded coordinates
var resolved = cmap.New[models.Location]()

func locationKey(l *models.Location) string {
	return fmt.Sprintf("%.4f,%.4f", l.GpsLat, l.GpsLong)
}

// StartProcessing fills area, city and country of new spots until ctx is done
func StartProcessing(ctx context.Context, geocoder Geocoder) {
	for {
		done, failed := processPending(ctx, geocoder)
		if done+failed > 0 {
			slog.Info("Spot geocoding pass", "done", done, "failed", failed)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(idleTime):
		}
	}
}

// processPending visits every spot without a location once
func processPending(ctx context.Context, geocoder Geocoder) (done, failed int) {
	lastProcessedID := ""
	for ctx.Err() == nil {
		spot := models.SpotNextForGeocoding(lastProcessedID)
		if spot.ID == "" {
			break
		}
		lastProcessedID = spot.ID
		if err := process(ctx, geocoder, &spot); err != nil {
			slog.Warn("No location found", "spot", spot.ID, "lat", spot.Lat, "lng", spot.Lng, "error", err)
			failed++
			continue
		}
		done++
	}
	return
}

func process(ctx context.Context, geocoder Geocoder, spot *models.Spot) error {
	location := spot.GetRoughLocation()
	key := locationKey(&location)
	// Try memory and then the local DB
	if cached, ok := resolved.Get(key); ok {
		return spot.SetLocation(&cached)
	}
	// An empty stored location means Nominatim has no address for the point
	if cached, found := models.LocationFind(location.GpsLat, location.GpsLong); found {
		resolved.Set(key, cached)
		return spot.SetLocation(&cached)
	}
	// Try a Nominatim request
	nominatim, err := geocoder.Reverse(ctx, location.GpsLat, location.GpsLong)
	switch {
	case errors.Is(err, locations.ErrNoAddress):
		slog.Debug("No address for spot", "spot", spot.ID, "lat", spot.Lat, "lng", spot.Lng)
	case err != nil:
		return err
	default:
		location = nominatim.ToLocation(location.GpsLat, location.GpsLong)
	}
	if err := location.Save(); err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	resolved.Set(key, location)
	return spot.SetLocation(&location)
}
