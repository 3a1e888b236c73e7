package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
)

// CacheHeaders sets cache-control on every response. Spot data is always
// re-fetched by the app, so the router default is CacheNoCache; individual
// end-points can pass CacheCustom and set their own header.
func CacheHeaders(cacheTime int) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch {
		case cacheTime == CacheNoCache:
			c.Header("cache-control", "no-cache")
		case cacheTime > 0:
			c.Header("cache-control", "private, max-age="+strconv.Itoa(cacheTime))
		}
		c.Next()
	}
}
