package handlers

import (
	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles checkout and order history. All routes require
// authentication; status and payment updates are separate admin-ish routes
// that act on any order by id.
type OrderHandler struct {
	service *services.OrderService
	auth    fiber.Handler
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, auth fiber.Handler) *OrderHandler {
	return &OrderHandler{service: service, auth: auth}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders", h.auth)
	orderRoutes.Get("/", h.HandleList)
	orderRoutes.Get("/:id", h.HandleGet)
	orderRoutes.Post("/", h.HandleCreate)
	orderRoutes.Patch("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Patch("/:id/payment", h.HandleUpdatePayment)
}

func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	orders, err := h.service.ListByUser(userID(c))
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"orders": orders,
		"count":  len(orders),
	})
}

func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	order, err := h.service.GetByUser(userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"order": order})
}

type createOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required,min=10,max=500"`
}

func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	order, err := h.service.Create(userID(c), req.ShippingAddress)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusCreated, "order created", fiber.Map{"order": order})
}

type updateOrderStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	order, err := h.service.UpdateStatus(c.Params("id"), models.OrderStatus(req.Status), req.TrackingNumber)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "order status updated", fiber.Map{"order": order})
}

type updatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
	PaymentID     string `json:"paymentId"`
}

func (h *OrderHandler) HandleUpdatePayment(c *fiber.Ctx) error {
	var req updatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	order, err := h.service.UpdatePayment(c.Params("id"), models.PaymentStatus(req.PaymentStatus), req.PaymentID)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "payment status updated", fiber.Map{"order": order})
}
