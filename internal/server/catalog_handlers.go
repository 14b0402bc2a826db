package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListSneakers handles GET /sneakers?q=
// @Summary List sneakers
// @Description Catalog listing, optionally filtered by a case-insensitive name substring
// @Tags catalog
// @Produce json
// @Param q query string false "Name contains"
// @Param limit query int false "Max results (capped at 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{q=string,sneakers=[]models.Sneaker}
// @Router /sneakers [get]
func (s *Server) ListSneakers(c *fiber.Ctx) error {
	page := parsePagination(c)
	q := c.Query("q")

	sneakers, err := s.catalog.ListSneakers(c.UserContext(), q, page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err, "/sneakers")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{
		"q":        q,
		"sneakers": sneakers,
	})
}

// GetSneaker handles GET /sneakers/:id
// @Summary Get sneaker
// @Description Sneaker detail with the caller's closet/wishlist/rotation state
// @Tags catalog
// @Produce json
// @Param id path int true "Sneaker ID"
// @Success 200 {object} object{sneaker=models.Sneaker,state=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /sneakers/{id} [get]
func (s *Server) GetSneaker(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.catalog.GetSneaker(c.UserContext(), identity(c), id)
	if err != nil {
		return s.fail(c, err, "/sneakers")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{
		"sneaker": detail.Sneaker,
		"state":   detail.State,
	})
}

// ListUsers handles GET /users?q=
// @Summary List users
// @Description User directory excluding the caller
// @Tags users
// @Produce json
// @Param q query string false "Username contains"
// @Param limit query int false "Max results (capped at 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{q=string,users=[]models.User}
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	page := parsePagination(c)
	q := c.Query("q")

	users, err := s.catalog.ListUsers(c.UserContext(), identity(c), q, page.Limit, page.Offset)
	if err != nil {
		return s.fail(c, err, "/users")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{
		"q":     q,
		"users": users,
	})
}
