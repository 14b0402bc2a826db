package server

import (
	"context"

	"sneakercloset/internal/models"
	"sneakercloset/internal/service"
	"sneakercloset/internal/session"

	"github.com/gofiber/fiber/v2"
)

type collectionAction func(ctx context.Context, actor session.Identity, sneakerID uint) (*service.ActionResult, error)

// runAction parses :itemId, applies action for the caller and redirects to
// the listing built by path.
func (s *Server) runAction(c *fiber.Ctx, param string, action collectionAction, path func(uint) string,
	message func(*service.ActionResult) (string, string),
) error {
	id, err := parseID(c, param)
	if err != nil {
		return nil
	}

	actor := identity(c)
	result, err := action(c.UserContext(), actor, id)
	if err != nil {
		return s.fail(c, err, path(actor.UserID))
	}
	category, text := message(result)
	return s.redirect(c, path(actor.UserID), category, text)
}

func silent(*service.ActionResult) (string, string) { return "", "" }

// AddToCloset handles POST /users/add_own/:itemId
// @Summary Add to closet
// @Tags collection
// @Security BearerAuth
// @Param itemId path int true "Sneaker ID"
// @Success 303 "Redirect to the closet"
// @Failure 404 {object} models.ErrorResponse
// @Router /users/add_own/{itemId} [post]
func (s *Server) AddToCloset(c *fiber.Ctx) error {
	return s.runAction(c, "itemId", s.collection.AddToCloset, closetPath, func(r *service.ActionResult) (string, string) {
		if r.Outcome.AlreadyPresent {
			return flashInfo, "Sneaker is already in your closet."
		}
		return flashSuccess, "Sneaker added to closet!"
	})
}

// RemoveFromCloset handles POST /users/remove_own/:itemId
// @Summary Remove from closet
// @Tags collection
// @Security BearerAuth
// @Param itemId path int true "Sneaker ID"
// @Success 303 "Redirect to the closet"
// @Failure 404 {object} models.ErrorResponse
// @Router /users/remove_own/{itemId} [post]
func (s *Server) RemoveFromCloset(c *fiber.Ctx) error {
	return s.runAction(c, "itemId", s.collection.RemoveFromCloset, closetPath, silent)
}

// AddToWishlist handles POST /users/add_wishlist/:itemId
// @Summary Add to wishlist
// @Description No-op with an info flash when the sneaker is already owned or wished for
// @Tags collection
// @Security BearerAuth
// @Param itemId path int true "Sneaker ID"
// @Success 303 "Redirect to the wishlist"
// @Failure 404 {object} models.ErrorResponse
// @Router /users/add_wishlist/{itemId} [post]
func (s *Server) AddToWishlist(c *fiber.Ctx) error {
	return s.runAction(c, "itemId", s.collection.AddToWishlist, wishlistPath, func(r *service.ActionResult) (string, string) {
		switch {
		case r.Outcome.AlreadyPresent && r.Outcome.From.Owned():
			return flashInfo, "Sneaker is already in your closet."
		case r.Outcome.AlreadyPresent:
			return flashInfo, "Sneaker is already in your wishlist."
		}
		return flashSuccess, "Sneaker added to wishlist!"
	})
}

// RemoveFromWishlist handles POST /users/remove_wishlist/:itemId
// @Summary Remove from wishlist
// @Tags collection
// @Security BearerAuth
// @Param itemId path int true "Sneaker ID"
// @Success 303 "Redirect to the wishlist"
// @Failure 404 {object} models.ErrorResponse
// @Router /users/remove_wishlist/{itemId} [post]
func (s *Server) RemoveFromWishlist(c *fiber.Ctx) error {
	return s.runAction(c, "itemId", s.collection.RemoveFromWishlist, wishlistPath, silent)
}

// ToggleRotation handles POST /sneakers/:id/rotation
// @Summary Toggle rotation
// @Description Flip a closet sneaker in or out of the rotation (at most 5)
// @Tags collection
// @Security BearerAuth
// @Param id path int true "Sneaker ID"
// @Success 303 "Redirect to the rotation"
// @Failure 404 {object} models.ErrorResponse
// @Router /sneakers/{id}/rotation [post]
func (s *Server) ToggleRotation(c *fiber.Ctx) error {
	return s.runAction(c, "id", s.collection.ToggleRotation, rotationPath, func(r *service.ActionResult) (string, string) {
		if r.Outcome.To == models.StateOwnedRotated {
			return flashSuccess, "Sneaker added to your rotation."
		}
		return flashInfo, "Sneaker removed from your rotation."
	})
}

// RemoveFromRotation handles POST /users/:id/rotation/remove/:sneakerId
// @Summary Remove from rotation
// @Tags collection
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param sneakerId path int true "Sneaker ID"
// @Success 303 "Redirect to the rotation"
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/rotation/remove/{sneakerId} [post]
func (s *Server) RemoveFromRotation(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	return s.runAction(c, "sneakerId",
		func(ctx context.Context, actor session.Identity, sneakerID uint) (*service.ActionResult, error) {
			return s.collection.RemoveFromRotation(ctx, actor, userID, sneakerID)
		},
		rotationPath, silent)
}

// GetCloset handles GET /users/:id/closet
// @Summary Get closet
// @Tags collection
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{user_id=int,closet=[]models.ClosetEntry}
// @Success 303 "Redirect when not the owner"
// @Router /users/{id}/closet [get]
func (s *Server) GetCloset(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	entries, err := s.collection.Closet(c.UserContext(), identity(c), id)
	if err != nil {
		return s.fail(c, err, "/")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{"user_id": id, "closet": entries})
}

// GetWishlist handles GET /users/:id/wishlist
// @Summary Get wishlist
// @Tags collection
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{user_id=int,wishlist=[]models.WishlistEntry}
// @Success 303 "Redirect when not the owner"
// @Router /users/{id}/wishlist [get]
func (s *Server) GetWishlist(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	entries, err := s.collection.Wishlist(c.UserContext(), identity(c), id)
	if err != nil {
		return s.fail(c, err, "/")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{"user_id": id, "wishlist": entries})
}

// GetRotation handles GET /users/:id/rotation
// @Summary Get rotation
// @Tags collection
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{user_id=int,rotation=[]models.ClosetEntry,limit=int}
// @Success 303 "Redirect when not the owner"
// @Router /users/{id}/rotation [get]
func (s *Server) GetRotation(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	entries, err := s.collection.Rotation(c.UserContext(), identity(c), id)
	if err != nil {
		return s.fail(c, err, "/")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{
		"user_id":  id,
		"rotation": entries,
		"limit":    models.RotationLimit,
	})
}
