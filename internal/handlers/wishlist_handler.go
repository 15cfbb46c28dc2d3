package handlers

import (
	"storefront/internal/apperrors"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles the owner-scoped wishlist endpoints.
type WishlistHandler struct {
	service *services.WishlistService
	auth    fiber.Handler
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService, auth fiber.Handler) *WishlistHandler {
	return &WishlistHandler{service: service, auth: auth}
}

// RegisterRoutes registers the wishlist routes with the Fiber app.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist", h.auth)
	wishlistRoutes.Get("/", h.HandleList)
	wishlistRoutes.Post("/", h.HandleAdd)
	wishlistRoutes.Delete("/:itemId", h.HandleRemove)
}

func (h *WishlistHandler) HandleList(c *fiber.Ctx) error {
	entries, err := h.service.List(userID(c))
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"wishlist": entries,
		"count":    len(entries),
	})
}

type addWishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

func (h *WishlistHandler) HandleAdd(c *fiber.Ctx) error {
	var req addWishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	entry, created, err := h.service.Add(userID(c), req.ProductID)
	if err != nil {
		return err
	}
	// Re-adding an existing product is a no-op, not a conflict.
	status := fiber.StatusOK
	message := "product already in wishlist"
	if created {
		status = fiber.StatusCreated
		message = "product added to wishlist"
	}
	return respondSuccess(c, status, message, fiber.Map{"item": entry})
}

func (h *WishlistHandler) HandleRemove(c *fiber.Ctx) error {
	if err := h.service.Remove(userID(c), c.Params("itemId")); err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "product removed from wishlist", nil)
}
