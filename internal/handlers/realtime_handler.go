package handlers

import (
	"strings"

	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RealtimeHandler upgrades websocket connections and hands them to the hub.
// Identity comes from a "token" query parameter or the Authorization header;
// a missing or invalid token downgrades the session to anonymous instead of
// rejecting the connection.
type RealtimeHandler struct {
	hub      *realtime.Hub
	tokens   *services.TokenService
	userRepo repositories.UserRepository
}

// NewRealtimeHandler creates a new RealtimeHandler.
func NewRealtimeHandler(hub *realtime.Hub, tokens *services.TokenService, userRepo repositories.UserRepository) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, tokens: tokens, userRepo: userRepo}
}

// RegisterRoutes registers the websocket endpoint with the Fiber app.
func (h *RealtimeHandler) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", h.upgrade)
	app.Get("/ws", websocket.New(h.serve))
}

func (h *RealtimeHandler) upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID, userName := h.identify(c)
	c.Locals("ws_user_id", userID)
	c.Locals("ws_user_name", userName)
	return c.Next()
}

func (h *RealtimeHandler) serve(conn *websocket.Conn) {
	userID, _ := conn.Locals("ws_user_id").(string)
	userName, _ := conn.Locals("ws_user_name").(string)
	realtime.NewSession(h.hub, conn, userID, userName).Run()
}

// identify resolves the account behind the connection. Any failure along the
// way means anonymous, never an error.
func (h *RealtimeHandler) identify(c *fiber.Ctx) (string, string) {
	tokenString := c.Query("token")
	if tokenString == "" {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		return "", ""
	}

	userID, err := h.tokens.VerifyAccess(tokenString)
	if err != nil {
		return "", ""
	}
	user, err := h.userRepo.GetByID(userID)
	if err != nil || !user.IsActive {
		return "", ""
	}
	return user.ID, user.Name
}
