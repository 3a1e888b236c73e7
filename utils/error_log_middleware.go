package utils

import (
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"
)

const maxLoggedBody = 512

// failureLogger copies error bodies into the log while passing them through
type failureLogger struct {
	gin.ResponseWriter
	method string
	path   string
}

func (w *failureLogger) Write(b []byte) (int, error) {
	if status := w.Status(); status >= 400 {
		slog.Warn("Request failed", "method", w.method, "path", w.path, "status", status, "error", failureMessage(b))
	}
	return w.ResponseWriter.Write(b)
}

func (w *failureLogger) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// failureMessage extracts {"error": "..."} or falls back to the raw body
func failureMessage(body []byte) string {
	var response struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &response) == nil && response.Error != "" {
		return response.Error
	}
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}
	return string(body)
}

// ErrorLogMiddleware logs 4xx/5xx responses, it doesn't work with GZIP
func ErrorLogMiddleware(c *gin.Context) {
	c.Writer = &failureLogger{ResponseWriter: c.Writer, method: c.Request.Method, path: c.Request.URL.Path}
	c.Next()
}
