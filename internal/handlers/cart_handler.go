package handlers

import (
	"storefront/internal/apperrors"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the owner-scoped cart endpoints. Every route requires
// authentication; the cart is always the caller's own.
type CartHandler struct {
	service *services.CartService
	auth    fiber.Handler
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, auth fiber.Handler) *CartHandler {
	return &CartHandler{service: service, auth: auth}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart", h.auth)
	cartRoutes.Get("/", h.HandleGet)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Put("/:itemId", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:itemId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClear)
}

func (h *CartHandler) HandleGet(c *fiber.Ctx) error {
	summary, err := h.service.Summary(userID(c))
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"cart": summary})
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	// An omitted quantity means one item.
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	line, summary, err := h.service.AddItem(userID(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusCreated, "item added to cart", fiber.Map{
		"item": line,
		"cart": summary,
	})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req updateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	summary, err := h.service.UpdateQuantity(userID(c), c.Params("itemId"), req.Quantity)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "cart item updated", fiber.Map{"cart": summary})
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	summary, err := h.service.RemoveItem(userID(c), c.Params("itemId"))
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "item removed from cart", fiber.Map{"cart": summary})
}

func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	summary, err := h.service.Clear(userID(c))
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "cart cleared", fiber.Map{"cart": summary})
}
