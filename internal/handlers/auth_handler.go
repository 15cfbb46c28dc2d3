package handlers

import (
	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// AuthHandler handles registration, sign-in and token refresh.
type AuthHandler struct {
	service *services.AuthService
	auth    fiber.Handler
}

// NewAuthHandler creates a new AuthHandler. auth is the middleware guarding
// the profile endpoint.
func NewAuthHandler(service *services.AuthService, auth fiber.Handler) *AuthHandler {
	return &AuthHandler{service: service, auth: auth}
}

// RegisterRoutes registers the auth routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/signin", h.HandleSignIn)
	authRoutes.Post("/refresh", h.HandleRefresh)
	authRoutes.Post("/logout", h.auth, h.HandleLogout)
	authRoutes.Get("/profile", h.auth, h.HandleProfile)
	authRoutes.Get("/verify", h.auth, h.HandleVerify)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	user, pair, err := h.service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusCreated, "registration successful", fiber.Map{
		"user":         user.Public(),
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
	})
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	user, pair, err := h.service.SignIn(req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "sign in successful", fiber.Map{
		"user":         user.Public(),
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	user, pair, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		return err
	}
	return respondSuccess(c, fiber.StatusOK, "token refreshed", fiber.Map{
		"user":         user.Public(),
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
	})
}

func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return apperrors.New(apperrors.KindUnauthenticated, "authentication required")
	}
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"user": user.Public()})
}

// HandleVerify confirms the presented access token. Reaching the handler
// means the middleware already accepted it.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return apperrors.New(apperrors.KindUnauthenticated, "authentication required")
	}
	return respondSuccess(c, fiber.StatusOK, "token is valid", fiber.Map{
		"valid": true,
		"user":  user.Public(),
	})
}

// HandleLogout acknowledges a sign-out. Tokens are stateless, so the real
// logout is the client discarding its pair; nothing is revoked server-side.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return respondSuccess(c, fiber.StatusOK, "logged out", nil)
}

// validationError converts validator output into a client-facing message
// naming the first offending field.
func validationError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		ve := verrs[0]
		return apperrors.Newf(apperrors.KindValidation, "field %q failed validation on %q", ve.Field(), ve.Tag())
	}
	return apperrors.Validation("invalid request body")
}
