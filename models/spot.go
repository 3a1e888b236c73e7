package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Ambush3/SkateSpotApp/db"

	"github.com/google/uuid"
	"github.com/zsefvlol/timezonemapper"
	"gorm.io/gorm"
)

var (
	ErrBlankName          = errors.New("spot name is required")
	ErrInvalidCoordinates = errors.New("spot coordinates are invalid")
	ErrSpotNotFound       = errors.New("spot not found")
)

type Spot struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   int64    `gorm:"autoCreateTime:milli;index:spot_created" json:"created_at"` // unix ms
	Name        string   `gorm:"type:varchar(200);not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Lat         float64  `gorm:"not null" json:"lat"`
	Lng         float64  `gorm:"not null" json:"lng"`
	Area        string   `gorm:"type:varchar(100)" json:"area,omitempty"`
	City        string   `gorm:"type:varchar(100)" json:"city,omitempty"`
	Country     string   `gorm:"type:varchar(100)" json:"country,omitempty"`
	Geocoded    bool     `gorm:"not null;default:false" json:"-"`
	Reviews     []Review `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// ValidCoordinates reports whether lat/lng are finite and within WGS84 bounds
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Validate trims the text fields and checks name and coordinates
func (s *Spot) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	if s.Name == "" {
		return ErrBlankName
	}
	if !ValidCoordinates(s.Lat, s.Lng) {
		return ErrInvalidCoordinates
	}
	return nil
}

// GetCreatedTimeInLocation returns the creation time in the spot's own time zone,
// falling back to the server's local time
func (s *Spot) GetCreatedTimeInLocation() time.Time {
	created := time.UnixMilli(s.CreatedAt)
	zoneName := timezonemapper.LatLngToTimezoneString(s.Lat, s.Lng)
	if zoneName == "" {
		return created
	}
	zone, err := time.LoadLocation(zoneName)
	if err != nil || zone == nil {
		return created
	}
	return created.In(zone)
}

// GetRoughLocation returns the cache key for reverse geocoding (0.0001 precision)
func (s *Spot) GetRoughLocation() (location Location) {
	location.GpsLat = float64(int(s.Lat*10000)) / 10000
	location.GpsLong = float64(int(s.Lng*10000)) / 10000
	return
}

// SpotList returns the most recently created spots first
func SpotList(limit int) (result []Spot, err error) {
	if limit <= 0 {
		limit = -1 // no limit
	}
	result = []Spot{}
	err = db.Instance.Order("created_at DESC").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}
	return result, nil
}

// SpotCreate validates and inserts the spot, assigning its ID
func SpotCreate(s *Spot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if err := db.Instance.Create(s).Error; err != nil {
		return fmt.Errorf("failed to create spot: %w", err)
	}
	return nil
}

// ReviewNotSavedError is returned when a spot was created but its initial review was not
type ReviewNotSavedError struct {
	Err error
}

func (e *ReviewNotSavedError) Error() string {
	return "spot saved, but its review was not: " + e.Err.Error()
}

func (e *ReviewNotSavedError) Unwrap() error {
	return e.Err
}

// SpotCreateWithRating creates the spot and, when rating is not 0, its first review.
// An invalid rating is rejected before anything is written. If only the review
// insert fails, the spot is kept and a *ReviewNotSavedError is returned.
func SpotCreateWithRating(s *Spot, rating int) (*Review, error) {
	if rating != 0 && !ValidRating(rating) {
		return nil, ErrInvalidRating
	}
	if err := SpotCreate(s); err != nil {
		return nil, err
	}
	if rating == 0 {
		return nil, nil
	}
	review, err := ReviewCreate(s.ID, rating, "")
	if err != nil {
		return nil, &ReviewNotSavedError{Err: err}
	}
	return review, nil
}

func SpotFind(id string) (s Spot, err error) {
	err = db.Instance.First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s, ErrSpotNotFound
	}
	if err != nil {
		return s, fmt.Errorf("failed to get spot: %w", err)
	}
	return s, nil
}

// SpotDelete removes the spot and all of its reviews
func SpotDelete(id string) error {
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("spot_id = ?", id).Delete(&Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&Spot{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete spot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSpotNotFound
		}
		return nil
	})
}

// SpotNextForGeocoding returns the next spot (by ID) without a resolved location,
// or a zero Spot when there is none
func SpotNextForGeocoding(lastProcessedID string) (result Spot) {
	db.Instance.Where("geocoded = ? AND id > ?", false, lastProcessedID).Order("id ASC").Limit(1).Find(&result)
	return
}

// SetLocation stores the geocoded place names on the spot
func (s *Spot) SetLocation(location *Location) error {
	s.Area = location.Area
	s.City = location.City
	s.Country = location.Country
	s.Geocoded = true
	return db.Instance.Model(s).Select("area", "city", "country", "geocoded").Updates(s).Error
}
