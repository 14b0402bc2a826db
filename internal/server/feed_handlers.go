package server

import (
	"log/slog"

	"sneakercloset/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GetNotifications handles GET /notifications. The whole feed is returned
// unless the caller pages with limit/offset.
// @Summary Get notifications
// @Description The caller's feed, newest first
// @Tags feed
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Max results (capped at 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{notifications=[]models.Notification}
// @Success 303 "Redirect to /login when anonymous"
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page := parsePagination(c)
	items, err := s.feed.NotificationsFor(c.UserContext(), identity(c), page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err, "/")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{"notifications": items})
}

// WebsocketHandler streams the caller's catalog activity events. Must be
// placed after LiveFeedRequired so userID is available in locals.
func (s *Server) WebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		uid, ok := conn.Locals("userID").(uint)
		if !ok || s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(uid, conn)
		if err != nil {
			middleware.Logger.Warn("live feed registration refused",
				slog.Uint64("user_id", uint64(uid)), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		defer s.hub.UnregisterClient(client)

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}

// GetFeatureFlags returns the configured flags as evaluated for the caller.
// @Summary Feature flags
// @Tags feed
// @Produce json
// @Success 200 {object} object{flags=map[string]bool}
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(identity(c).UserID),
	})
}
