package server

import (
	"context"
	"log/slog"

	"sneakercloset/internal/featureflags"
	"sneakercloset/internal/middleware"
	"sneakercloset/internal/models"
	"sneakercloset/internal/service"
	"sneakercloset/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionGate resolves the session token, if any, into the request identity.
// A missing, expired or revoked token, or one whose account no longer
// exists, leaves the request anonymous and drops the stale cookie.
func (s *Server) SessionGate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := session.TokenFromRequest(c)
		if raw == "" {
			return c.Next()
		}

		claims, err := s.sessions.Parse(c.UserContext(), raw)
		if err == nil {
			// Cached lookup; deleting an account invalidates the entry.
			_, err = s.identity.GetUser(c.UserContext(), claims.UserID)
			if err != nil && !models.HasCode(err, models.CodeNotFound) {
				return s.fail(c, err, "/")
			}
		}
		if err != nil {
			middleware.Logger.DebugContext(c.UserContext(), "ignoring session token",
				slog.String("error", err.Error()))
			session.ClearCookie(c, s.config.CookieSecure)
			return c.Next()
		}

		c.Locals("userID", claims.UserID)
		c.Locals("claims", claims)
		ctx := session.WithIdentity(c.UserContext(), session.Identity{UserID: claims.UserID})
		ctx = context.WithValue(ctx, middleware.UserIDKey, claims.UserID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// LiveFeedRequired rejects anonymous callers and users outside the
// live_feed rollout.
func (s *Server) LiveFeedRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := identity(c)
		if actor.Anonymous() {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(service.AccessUnauthorizedMessage))
		}
		if s.hub == nil || !s.featureFlags.Enabled(featureflags.LiveFeed, actor.UserID) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				&models.AppError{Code: models.CodeNotFound, Message: "Live feed is not available"})
		}
		return c.Next()
	}
}
