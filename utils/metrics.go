package utils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skatespots_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skatespots_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	upstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skatespots_upstream_calls_total",
		Help: "Calls to third party map services.",
	}, []string{"service", "result"})
)

// MetricsMiddleware records count and latency of every request, labeled by route pattern
func MetricsMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
}

// MetricsHandler exposes the default registry
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// CountUpstreamCall counts a request to Overpass/Nominatim, err is the transport error if any
func CountUpstreamCall(service string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	upstreamCalls.WithLabelValues(service, result).Inc()
}
