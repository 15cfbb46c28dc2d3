package handlers

import (
	"time"

	"storefront/internal/apperrors"
	"storefront/pkg/realtime"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler exposes the push-only announcement endpoints: system
// maintenance notices, promotions and per-user notifications. Nothing is
// persisted; sessions connected later never see past announcements.
type NotificationHandler struct {
	emitter *realtime.Emitter
	auth    fiber.Handler
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(emitter *realtime.Emitter, auth fiber.Handler) *NotificationHandler {
	return &NotificationHandler{emitter: emitter, auth: auth}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/notifications", h.auth)
	routes.Post("/maintenance", h.HandleMaintenance)
	routes.Post("/promotions", h.HandlePromotion)
	routes.Post("/users/:id", h.HandleUserNotification)
}

type maintenanceRequest struct {
	Message       string     `json:"message" validate:"required,min=1,max=500"`
	ScheduledTime *time.Time `json:"scheduledTime"`
}

func (h *NotificationHandler) HandleMaintenance(c *fiber.Ctx) error {
	var req maintenanceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	h.emitter.SystemMaintenance(req.Message, req.ScheduledTime)
	return respondSuccess(c, fiber.StatusOK, "maintenance notice broadcast", nil)
}

type promotionRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	Discount    float64 `json:"discount" validate:"gte=0,lte=100"`
}

func (h *NotificationHandler) HandlePromotion(c *fiber.Ctx) error {
	var req promotionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	// Promotions only reach authenticated sessions.
	h.emitter.PromotionNew(req)
	return respondSuccess(c, fiber.StatusOK, "promotion broadcast", nil)
}

type userNotificationRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

func (h *NotificationHandler) HandleUserNotification(c *fiber.Ctx) error {
	var req userNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	h.emitter.Notification(c.Params("id"), req)
	return respondSuccess(c, fiber.StatusOK, "notification sent", nil)
}
