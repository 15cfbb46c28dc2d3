package handlers

import (
	"strconv"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles the catalog endpoints.
type ProductHandler struct {
	products *services.ProductService
	wishlist *services.WishlistService
	auth     fiber.Handler
	optional fiber.Handler
}

// NewProductHandler creates a new ProductHandler. auth guards the catalog
// write endpoints; optional resolves an account on product detail so the
// response can flag wishlist membership.
func NewProductHandler(products *services.ProductService, wishlist *services.WishlistService, auth, optional fiber.Handler) *ProductHandler {
	return &ProductHandler{products: products, wishlist: wishlist, auth: auth, optional: optional}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	// Registered before /:id so "category" is not taken for a product id.
	productRoutes.Get("/category/:categoryId", h.HandleByCategory)
	productRoutes.Get("/:id", h.optional, h.HandleGet)
	productRoutes.Post("/", h.auth, h.HandleCreate)
	productRoutes.Put("/:id", h.auth, h.HandleUpdate)
	productRoutes.Delete("/:id", h.auth, h.HandleDeactivate)

	router.Get("/categories", h.HandleCategories)
}

func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Brand:    c.Query("brand"),
		SortBy:   c.Query("sortBy"),
		SortDesc: c.Query("order") == "desc",
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	}
	if f, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = f
	}
	if f, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = f
	}
	if f, err := strconv.ParseFloat(c.Query("minRating"), 64); err == nil {
		filter.MinRating = f
	}
	filter.InStock = c.Query("inStock") == "true"

	views, pagination, err := h.products.List(filter)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"products":   views,
		"pagination": pagination,
	})
}

func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	view, err := h.products.Get(c.Params("id"))
	if err != nil {
		return err
	}

	data := fiber.Map{"product": view}
	if uid := userID(c); uid != "" {
		inWishlist, err := h.wishlist.Contains(uid, view.ID)
		if err == nil {
			data["inWishlist"] = inWishlist
		}
	}
	return respondSuccess(c, fiber.StatusOK, "", data)
}

type productRequest struct {
	Title            string  `json:"title" validate:"required,min=1,max=200"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"shortDescription"`
	Price            float64 `json:"price" validate:"gte=0"`
	ImageURL         string  `json:"imageUrl"`
	Category         string  `json:"category"`
	Rating           float64 `json:"rating" validate:"gte=0,lte=5"`
	Stock            int     `json:"stock" validate:"gte=0"`
	Brand            string  `json:"brand"`
}

func (r *productRequest) toModel() *models.Product {
	return &models.Product{
		Title:            r.Title,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		Price:            r.Price,
		ImageURL:         r.ImageURL,
		Category:         r.Category,
		Rating:           r.Rating,
		Stock:            r.Stock,
		Brand:            r.Brand,
	}
}

func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	product := req.toModel()
	if err := h.products.Create(product); err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusCreated, "product created", fiber.Map{"product": product.View()})
}

func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	product, err := h.products.Update(c.Params("id"), req.toModel())
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "product updated", fiber.Map{"product": product.View()})
}

func (h *ProductHandler) HandleDeactivate(c *fiber.Ctx) error {
	if err := h.products.Deactivate(c.Params("id")); err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "product deactivated", nil)
}

func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.products.Categories()
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}

func (h *ProductHandler) HandleByCategory(c *fiber.Ctx) error {
	category, views, err := h.products.ByCategory(c.Params("categoryId"))
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"category": category,
		"products": views,
	})
}
