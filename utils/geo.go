package utils

import "math"

// EarthRadius is the WGS84 semi-major axis in meters
const EarthRadius = 6378137.0

func DegreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// HaversineDistance returns the great-circle distance in meters between two points
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := DegreesToRadians(lat1)
	phi2 := DegreesToRadians(lat2)
	dLat := phi2 - phi1
	dLng := DegreesToRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadius * c
}
