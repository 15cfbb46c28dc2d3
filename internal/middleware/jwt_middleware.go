package middleware

import (
	"errors"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that verifies the Bearer access token
// and loads the account behind it. Verification failures carry distinct
// machine codes (expired vs malformed vs not yet valid) so the client can
// decide between refreshing and re-authenticating.
func AuthRequired(tokens *services.TokenService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return err
		}

		userID, err := tokens.VerifyAccess(tokenString)
		if err != nil {
			return err
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.New(apperrors.KindUnauthenticated, "account no longer exists")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to load account", err)
		}
		if !user.IsActive {
			return apperrors.New(apperrors.KindUnauthenticated, "account is deactivated")
		}

		c.Locals("user_id", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

// OptionalAuth resolves the account when a valid Bearer token is present and
// continues anonymously otherwise. It never rejects the request.
func OptionalAuth(tokens *services.TokenService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Next()
		}
		userID, err := tokens.VerifyAccess(tokenString)
		if err != nil {
			return c.Next()
		}
		user, err := userRepo.GetByID(userID)
		if err != nil || !user.IsActive {
			return c.Next()
		}
		c.Locals("user_id", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.New(apperrors.KindUnauthenticated, "authorization header is required")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.New(apperrors.KindUnauthenticated, "authorization header format must be 'Bearer <token>'")
	}
	return parts[1], nil
}
