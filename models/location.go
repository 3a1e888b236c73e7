package models

import (
	"strings"

	"github.com/Ambush3/SkateSpotApp/db"
)

const (
	MinLocationDisplaySize = 5
)

// Location is used as cache to avoid hammering the Geocoding service
type Location struct {
	GpsLat      float64 `gorm:"primaryKey;autoIncrement:false"` // Rounded to 0.0001
	GpsLong     float64 `gorm:"primaryKey;autoIncrement:false"` // Rounded to 0.0001
	Display     string  `gorm:"type:varchar(250)"`
	Area        string  `gorm:"type:varchar(100)"`
	City        string  `gorm:"type:varchar(100)"`
	Country     string  `gorm:"type:varchar(100)"`
	CountryCode string  `gorm:"type:varchar(10)"`
}

func (n *Location) GetShortDisplay() string {
	r := strings.SplitN(n.Display, ",", 3)
	if len(r) == 1 || len(r[0]) >= MinLocationDisplaySize {
		return r[0]
	}
	return r[0] + "," + r[1]
}

// IsEmpty is true when nothing useful was resolved for the coordinates
func (n *Location) IsEmpty() bool {
	return n.Area == "" && n.City == "" && n.Country == ""
}

// LocationFind looks up the cached location for already rounded coordinates
func LocationFind(lat, long float64) (location Location, found bool) {
	var result []Location
	db.Instance.Where("gps_lat = ? AND gps_long = ?", lat, long).Limit(1).Find(&result)
	if len(result) == 0 {
		return Location{GpsLat: lat, GpsLong: long}, false
	}
	return result[0], true
}

func (n *Location) Save() error {
	return db.Instance.Save(n).Error
}
