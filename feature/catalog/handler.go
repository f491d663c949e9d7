package catalog

import (
	"itemdex/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog feature.
type Handler struct {
	service *Service
	log     *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/scan", h.HandleTriggerScan)
	group.Get("/summary", h.HandleGetSummary)
}

// HandleTriggerScan starts a catalog pass in the background.
func (h *Handler) HandleTriggerScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	if !h.service.TriggerScan() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": ErrScanInProgress.Error(),
		})
	}

	l.Info("Catalog pass triggered")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "scan started",
	})
}

// HandleGetSummary returns the most recent completed pass summary.
func (h *Handler) HandleGetSummary(c *fiber.Ctx) error {
	summary, ok := h.service.LastSummary()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no completed scan yet",
		})
	}
	return c.JSON(summary)
}
