package http

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/astexai/waitlist-backend/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID reuses the caller's X-Request-ID or generates one, and echoes it in the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("route", routeOf(c)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("request handled")
	}
}

func observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, routeOf(c), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// routeOf returns the matched route pattern, keeping label cardinality bounded.
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

// corsMiddleware allows every method and every requested header for the configured origins,
// with credentials. An empty list or "*" allows any origin; the request origin is echoed back
// because browsers reject a credentialed response carrying "Access-Control-Allow-Origin: *".
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	handle := cors.New(cfg)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Writer = &echoHeadersWriter{ResponseWriter: c.Writer, requested: requested}
			}
		}
		handle(c)
	}
}

// echoHeadersWriter replaces the fixed Access-Control-Allow-Headers list of an approved
// preflight with the headers the browser asked for.
type echoHeadersWriter struct {
	gin.ResponseWriter
	requested string
}

func (w *echoHeadersWriter) echo() {
	h := w.Header()
	if h.Get("Access-Control-Allow-Methods") != "" {
		h.Set("Access-Control-Allow-Headers", w.requested)
	}
}

func (w *echoHeadersWriter) WriteHeaderNow() {
	if !w.Written() {
		w.echo()
	}
	w.ResponseWriter.WriteHeaderNow()
}

func (w *echoHeadersWriter) Write(data []byte) (int, error) {
	if !w.Written() {
		w.echo()
	}
	return w.ResponseWriter.Write(data)
}

func (w *echoHeadersWriter) WriteString(s string) (int, error) {
	if !w.Written() {
		w.echo()
	}
	return w.ResponseWriter.WriteString(s)
}
