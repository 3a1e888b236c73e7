package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS     = ""              // e.g. "example.com,example2.com"
	MYSQL_DSN       = ""              // MySQL will be used if this is set
	POSTGRES_DSN    = ""              // PostgreSQL will be used if MYSQL_DSN is not configured and this is set
	SQLITE_FILE     = "skatespots.db" // SQLite is the fallback when no other DSN is configured
	BIND_ADDRESS    = "0.0.0.0:8080"
	DEBUG_MODE      = true
	LOG_LEVEL       = "info"
	SPOT_LIST_LIMIT = 100    // Max number of spots returned by /spot/list
	PLACES_RADIUS   = 5000.0 // Default search radius for nearby places, in meters
	OVERPASS_URL    = "https://overpass-api.de/api/interpreter"
	NOMINATIM_URL   = "https://nominatim.openstreetmap.org"
	USER_AGENT      = "SkateSpotApp/1.0"
	// Reverse geocode new spots in the background (area, city, country)
	GEOCODE_SPOTS = true
	// Overpass queries use [timeout:25], the client should wait a bit longer than that
	HTTP_TIMEOUT_SECONDS = 35
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("POSTGRES_DSN", &POSTGRES_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("LOG_LEVEL", &LOG_LEVEL)
	readEnvInt("SPOT_LIST_LIMIT", &SPOT_LIST_LIMIT)
	readEnvFloat("PLACES_RADIUS", &PLACES_RADIUS)
	readEnvString("OVERPASS_URL", &OVERPASS_URL)
	readEnvString("NOMINATIM_URL", &NOMINATIM_URL)
	readEnvString("USER_AGENT", &USER_AGENT)
	readEnvBool("GEOCODE_SPOTS", &GEOCODE_SPOTS)
	readEnvInt("HTTP_TIMEOUT_SECONDS", &HTTP_TIMEOUT_SECONDS)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
