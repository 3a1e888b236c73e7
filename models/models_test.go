package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Ambush3/SkateSpotApp/db"
)

func setupDB(t *testing.T) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	if err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)); err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := Init(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
}

func TestSpotCreate(t *testing.T) {
	setupDB(t)

	tests := []struct {
		name    string
		spot    Spot
		wantErr error
	}{
		{"valid", Spot{Name: "  Stair set ", Description: "ten stair", Lat: 40.7, Lng: -74.0}, nil},
		{"blank name", Spot{Name: "   ", Lat: 40.7, Lng: -74.0}, ErrBlankName},
		{"empty name", Spot{Lat: 40.7, Lng: -74.0}, ErrBlankName},
		{"lat out of range", Spot{Name: "Ledge", Lat: 91, Lng: 0}, ErrInvalidCoordinates},
		{"lng out of range", Spot{Name: "Ledge", Lat: 0, Lng: -181}, ErrInvalidCoordinates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spot := tt.spot
			err := SpotCreate(&spot)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SpotCreate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if spot.ID != "" {
					t.Errorf("ID assigned to rejected spot: %s", spot.ID)
				}
				return
			}
			if spot.ID == "" {
				t.Error("Expected spot ID to be generated")
			}
			if spot.CreatedAt == 0 {
				t.Error("Expected CreatedAt to be set")
			}
			if spot.Name != "Stair set" {
				t.Errorf("Name = %q, want trimmed", spot.Name)
			}
			stored, err := SpotFind(spot.ID)
			if err != nil {
				t.Fatalf("SpotFind() error = %v", err)
			}
			if stored.Lat != spot.Lat || stored.Lng != spot.Lng {
				t.Errorf("coordinates = %v,%v, want %v,%v", stored.Lat, stored.Lng, spot.Lat, spot.Lng)
			}
		})
	}
}

func TestSpotList(t *testing.T) {
	setupDB(t)

	for i := 1; i <= 5; i++ {
		spot := Spot{Name: fmt.Sprintf("Spot %d", i), Lat: 1, Lng: 1, CreatedAt: int64(i * 1000)}
		if err := SpotCreate(&spot); err != nil {
			t.Fatalf("SpotCreate() error = %v", err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		spots, err := SpotList(10)
		if err != nil {
			t.Fatalf("SpotList() error = %v", err)
		}
		if len(spots) != 5 {
			t.Fatalf("len = %d, want 5", len(spots))
		}
		if spots[0].Name != "Spot 5" || spots[4].Name != "Spot 1" {
			t.Errorf("order = %s ... %s", spots[0].Name, spots[4].Name)
		}
	})

	t.Run("capped", func(t *testing.T) {
		spots, err := SpotList(3)
		if err != nil {
			t.Fatalf("SpotList() error = %v", err)
		}
		if len(spots) != 3 {
			t.Fatalf("len = %d, want 3", len(spots))
		}
		if spots[2].Name != "Spot 3" {
			t.Errorf("last = %s, want Spot 3", spots[2].Name)
		}
	})
}

func TestSpotDelete(t *testing.T) {
	setupDB(t)

	spot := Spot{Name: "Bank", Lat: 10, Lng: 10}
	if _, err := SpotCreateWithRating(&spot, 4); err != nil {
		t.Fatalf("SpotCreateWithRating() error = %v", err)
	}
	if _, err := ReviewCreate(spot.ID, 2, ""); err != nil {
		t.Fatalf("ReviewCreate() error = %v", err)
	}

	if err := SpotDelete(spot.ID); err != nil {
		t.Fatalf("SpotDelete() error = %v", err)
	}
	if _, err := SpotFind(spot.ID); !errors.Is(err, ErrSpotNotFound) {
		t.Errorf("SpotFind() after delete error = %v, want ErrSpotNotFound", err)
	}
	reviews, err := ReviewsForSpot(spot.ID)
	if err != nil {
		t.Fatalf("ReviewsForSpot() error = %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("reviews left after delete: %d", len(reviews))
	}
	if err := SpotDelete(spot.ID); !errors.Is(err, ErrSpotNotFound) {
		t.Errorf("second SpotDelete() error = %v, want ErrSpotNotFound", err)
	}
}

func TestSpotCreateWithRating(t *testing.T) {
	setupDB(t)

	t.Run("no rating", func(t *testing.T) {
		spot := Spot{Name: "Gap", Lat: 1, Lng: 2}
		review, err := SpotCreateWithRating(&spot, 0)
		if err != nil || review != nil {
			t.Fatalf("SpotCreateWithRating() = %v, %v", review, err)
		}
	})

	t.Run("with rating", func(t *testing.T) {
		spot := Spot{Name: "Rail", Lat: 1, Lng: 2}
		review, err := SpotCreateWithRating(&spot, 5)
		if err != nil {
			t.Fatalf("SpotCreateWithRating() error = %v", err)
		}
		if review == nil || review.SpotID != spot.ID || review.Rating != 5 {
			t.Errorf("review = %+v", review)
		}
	})

	t.Run("invalid rating writes nothing", func(t *testing.T) {
		spot := Spot{Name: "Hubba", Lat: 1, Lng: 2}
		if _, err := SpotCreateWithRating(&spot, 6); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("error = %v, want ErrInvalidRating", err)
		}
		if spot.ID != "" {
			t.Error("spot was created for an invalid rating")
		}
	})
}

func TestReviewCreate(t *testing.T) {
	setupDB(t)

	spot := Spot{Name: "Bowl", Lat: 3, Lng: 4}
	if err := SpotCreate(&spot); err != nil {
		t.Fatalf("SpotCreate() error = %v", err)
	}

	tests := []struct {
		name    string
		spotID  string
		rating  int
		wantErr error
	}{
		{"valid", spot.ID, 3, nil},
		{"lowest", spot.ID, 1, nil},
		{"highest", spot.ID, 5, nil},
		{"zero", spot.ID, 0, ErrInvalidRating},
		{"too high", spot.ID, 6, ErrInvalidRating},
		{"unknown spot", "missing", 3, ErrSpotNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := ReviewCreate(tt.spotID, tt.rating, " nice ")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReviewCreate() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && (review.ID == "" || review.Comment != "nice") {
				t.Errorf("review = %+v", review)
			}
		})
	}

	reviews, err := ReviewsForSpot(spot.ID)
	if err != nil {
		t.Fatalf("ReviewsForSpot() error = %v", err)
	}
	if len(reviews) != 3 {
		t.Errorf("len = %d, want 3", len(reviews))
	}
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"empty", nil, 0},
		{"single", []int{2}, 2},
		{"three and five", []int{3, 5}, 4.0},
		{"fraction", []int{1, 2}, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := []Review{}
			for _, r := range tt.ratings {
				reviews = append(reviews, Review{Rating: r})
			}
			if got := AverageRating(reviews); got != tt.want {
				t.Errorf("AverageRating() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpot_GetRoughLocation(t *testing.T) {
	s := Spot{Lat: 35.6895123, Lng: 139.6917456}
	got := s.GetRoughLocation()
	if got.GpsLat != 35.6895 || got.GpsLong != 139.6917 {
		t.Errorf("GetRoughLocation() = %v,%v", got.GpsLat, got.GpsLong)
	}
}

func TestSpot_GetCreatedTimeInLocation(t *testing.T) {
	CST, _ := time.LoadLocation("Asia/Shanghai")
	tests := []struct {
		name string
		spot Spot
		want time.Time
	}{
		{
			name: "Asia/Shanghai",
			spot: Spot{CreatedAt: 1696258800000, Lat: 39.9254474, Lng: 116.3870752},
			want: time.UnixMilli(1696258800000).In(CST),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spot.GetCreatedTimeInLocation()
			if !got.Equal(tt.want) || got.Location().String() != tt.want.Location().String() {
				t.Errorf("GetCreatedTimeInLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocation_GetShortDisplay(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"Venice Beach Skatepark, Ocean Front Walk, Los Angeles", "Venice Beach Skatepark"},
		{"12, Main Street, Springfield", "12, Main Street"},
		{"Nowhere", "Nowhere"},
	}
	for _, tt := range tests {
		l := Location{Display: tt.display}
		if got := l.GetShortDisplay(); got != tt.want {
			t.Errorf("GetShortDisplay(%q) = %q, want %q", tt.display, got, tt.want)
		}
	}
}
