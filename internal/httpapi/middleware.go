package httpapi

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Headers set on every response.
const (
	RequestIDHeader    = "X-Request-ID"
	ResponseTimeHeader = "X-Response-Time"
)

const requestIDKey = "request_id"

// requestIDMiddleware reuses a caller-supplied request id or assigns one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.Last().Err)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("http request", attrs...)
		case status >= 400:
			logger.Warn("http request", attrs...)
		default:
			logger.Info("http request", attrs...)
		}
	}
}

// responseTimeMiddleware reports handler time in milliseconds. The header is
// written just before the body so it covers the whole handler.
func responseTimeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &timedWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Next()
	}
}

type timedWriter struct {
	gin.ResponseWriter
	start   time.Time
	written bool
}

func (w *timedWriter) stamp() {
	if !w.written {
		w.written = true
		ms := float64(time.Since(w.start).Microseconds()) / 1000
		w.Header().Set(ResponseTimeHeader, fmt.Sprintf("%.3fms", ms))
	}
}

func (w *timedWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *timedWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}
