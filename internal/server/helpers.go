package server

import (
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sneakercloset/internal/middleware"
	"sneakercloset/internal/models"
	"sneakercloset/internal/service"
	"sneakercloset/internal/session"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers return nil in its place.
var errResponseWritten = errors.New("response already written")

const (
	flashCookie        = "flash"
	maxPaginationLimit = 100
)

// Flash categories.
const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashDanger  = "danger"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit and offset. A missing limit means everything.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter as a positive uint. Anything else is
// answered with 404, the same as an unknown id.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Not found"})
		return 0, errResponseWritten
	}
	return uint(id), nil
}

func identity(c *fiber.Ctx) session.Identity {
	return session.FromContext(c.UserContext())
}

// Flash is a one-shot message carried to the next page view.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func (s *Server) setFlash(c *fiber.Ctx, category, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		MaxAge:   60,
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash returns the pending flash, if any, and clears it.
func (s *Server) popFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(decoded, "|")
	if !ok || message == "" {
		return nil
	}
	return &Flash{Category: category, Message: message}
}

// redirect answers 303 See Other, optionally carrying a flash.
func (s *Server) redirect(c *fiber.Ctx, location, category, message string) error {
	if message != "" {
		s.setFlash(c, category, message)
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

// view renders a read model with the pending flash attached.
func (s *Server) view(c *fiber.Ctx, status int, data fiber.Map) error {
	if flash := s.popFlash(c); flash != nil {
		data["flash"] = flash
	}
	return c.Status(status).JSON(data)
}

// errMessage is the user-facing message carried by an AppError.
func errMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

// fail maps a service error onto the response. listing is where state machine
// refusals send the user back to.
func (s *Server) fail(c *fiber.Ctx, err error, listing string) error {
	message := errMessage(err)
	switch models.ErrorCode(err) {
	case models.CodeUnauthorized:
		return s.redirect(c, "/login", flashDanger, service.AccessUnauthorizedMessage)
	case models.CodeForbidden:
		return s.redirect(c, "/", flashDanger, service.AccessUnauthorizedMessage)
	case models.CodeNotInCloset:
		return s.redirect(c, listing, flashDanger, message)
	case models.CodeCapacityExceeded:
		return s.redirect(c, listing, flashInfo, message)
	case models.CodeNotFound:
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	case models.CodeValidation:
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	case models.CodeConflict:
		return models.RespondWithError(c, fiber.StatusConflict, err)
	default:
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
}

func closetPath(userID uint) string {
	return "/users/" + strconv.FormatUint(uint64(userID), 10) + "/closet"
}

func wishlistPath(userID uint) string {
	return "/users/" + strconv.FormatUint(uint64(userID), 10) + "/wishlist"
}

func rotationPath(userID uint) string {
	return "/users/" + strconv.FormatUint(uint64(userID), 10) + "/rotation"
}

func profilePath(userID uint) string {
	return "/users/" + strconv.FormatUint(uint64(userID), 10)
}
