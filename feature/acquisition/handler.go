package acquisition

import (
	"itemdex/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// eventRequest is the ingest payload the game process posts.
type eventRequest struct {
	ItemID   int    `json:"itemId"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
	Source   string `json:"source"`
}

// Handler handles HTTP requests for the acquisition feature. The ingest
// endpoint is one EventSource among possibly several: it feeds the push
// source the service subscribed the debouncer to.
type Handler struct {
	service *Service
	ingest  *PushSource
	log     *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, ingest *PushSource, log *zap.Logger) *Handler {
	return &Handler{service: service, ingest: ingest, log: log}
}

// RegisterRoutes registers the acquisition routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/acquisition")
	group.Post("/events", h.HandleIngestEvent)
	group.Get("/status", h.HandleGetStatus)
}

// HandleIngestEvent accepts one inventory mutation notification.
func (h *Handler) HandleIngestEvent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid event payload",
		})
	}
	if req.ItemID == 0 || req.Quantity == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "itemId and quantity are required",
		})
	}

	delivered := h.ingest.Emit(Event{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Name:     req.Name,
		Source:   req.Source,
	})
	if !delivered {
		l.Warn("Event dropped, monitoring not started", zap.Int("item_id", req.ItemID))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "acquisition monitoring not started",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "queued",
	})
}

// HandleGetStatus reports the pipeline's current state.
func (h *Handler) HandleGetStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}
