package http

import (
	"net/http"

	"github.com/astexai/waitlist-backend/internal/domain/model"
	"github.com/astexai/waitlist-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handlers struct {
	service *service.WhitelistService
	logger  zerolog.Logger
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *service.WhitelistService, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger.With().Str("layer", "http_handler").Logger(),
	}
}

// RegisterRoutes sets up the routing for the waitlist API.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/whitelist", h.CreateEntry)
		api.GET("/whitelist", h.ListEntries)

		admin := api.Group("/admin")
		admin.GET("/stats", h.Stats)
		admin.GET("/entries", h.AdminEntries)
	}
}

// CreateEntry handles a registration: validate, store, then send the welcome.
func (h *Handlers) CreateEntry(c *gin.Context) {
	var req RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}

	outcome, err := h.service.Register(c.Request.Context(), req.toEntry())
	if err != nil {
		if service.IsValidation(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
			return
		}
		h.logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("failed to create entry")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, RegisterResponse{
		Status:        "success",
		Message:       outcome.Message,
		EmailError:    outcome.EmailError,
		WhatsAppError: outcome.WhatsAppError,
	})
}

// ListEntries returns the stored entries as-is. Unreadable data is served as an empty list.
func (h *Handlers) ListEntries(c *gin.Context) {
	records, err := h.service.ListEntries(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list entries")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(records))
}

// AdminEntries returns the stored entries and fails loudly when the store is unreadable.
func (h *Handlers) AdminEntries(c *gin.Context) {
	records, err := h.service.AdminEntries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(records))
}

func (h *Handlers) Stats(c *gin.Context) {
	stats, err := h.service.ComputeStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// nonNil keeps an empty store encoded as [] rather than null.
func nonNil(records []model.Record) []model.Record {
	if records == nil {
		return []model.Record{}
	}
	return records
}
