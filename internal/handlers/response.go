package handlers

import (
	"errors"

	"storefront/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// envelope is the response shape shared by every endpoint: status is
// "success", "fail" (client error) or "error" (server error).
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondSuccess(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// NewErrorHandler builds the app-wide Fiber error handler. Operational
// errors (apperrors.Error) surface their own message and machine code;
// everything else collapses to a generic 500 with the detail kept in the
// logs. In development the underlying error is echoed to the client.
func NewErrorHandler(log *zap.Logger, development bool) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			status := appErr.Kind.StatusCode()
			message := appErr.Message
			if appErr.Kind == apperrors.KindInternal {
				log.Error("request failed",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(err))
				if !development {
					message = "internal server error"
				}
			}
			return c.Status(status).JSON(envelope{
				Status:  statusWord(status),
				Message: message,
				Code:    appErr.Kind.Code(),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(envelope{
				Status:  statusWord(fiberErr.Code),
				Message: fiberErr.Message,
			})
		}

		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		message := "internal server error"
		if development {
			message = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(envelope{
			Status:  "error",
			Message: message,
			Code:    apperrors.KindInternal.Code(),
		})
	}
}

func statusWord(status int) string {
	if status >= 500 {
		return "error"
	}
	return "fail"
}

// userID returns the authenticated account id set by the auth middleware.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
