package http

import (
	"net/http"

	"github.com/astexai/waitlist-backend/internal/config"
	"github.com/astexai/waitlist-backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server is a wrapper for the HTTP server.
type Server struct {
	*http.Server
	logger zerolog.Logger
}

// NewServer creates and configures a new Gin server.
func NewServer(cfg *config.Config, handlers *Handlers, m *metrics.Metrics, logger *zerolog.Logger) *Server {
	log := logger.With().Str("layer", "http_server").Logger()
	log.Info().Msg("initializing http server")

	log.Info().Str("mode", cfg.HTTP.GinMode).Msg("setting gin mode")
	gin.SetMode(cfg.HTTP.GinMode)

	router := gin.New()

	log.Info().Msg("initializing middleware: recovery, request id, access log")
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(accessLog(log))

	if cfg.HTTP.MetricsEnabled && m != nil {
		log.Info().Msg("initializing middleware: metrics")
		router.Use(observe(m))
	}

	log.Info().Strs("origins", cfg.HTTP.AllowedOrigins).Msg("initializing middleware: cors")
	router.Use(corsMiddleware(cfg.HTTP.AllowedOrigins))

	log.Info().Msg("registering api routes")
	handlers.RegisterRoutes(router)

	log.Info().Msg("registering health check endpoint")
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.MetricsEnabled && m != nil {
		log.Info().Msg("registering metrics endpoint")
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Port,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}

	return &Server{server, log}
}
