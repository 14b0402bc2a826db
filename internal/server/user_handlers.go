package server

import (
	"sneakercloset/internal/models"
	"sneakercloset/internal/service"

	"github.com/gofiber/fiber/v2"
)

type profileRequest struct {
	Username       string `json:"username" form:"username"`
	FirstName      string `json:"first_name" form:"first_name"`
	LastName       string `json:"last_name" form:"last_name"`
	Email          string `json:"email" form:"email"`
	ImageURL       string `json:"image_url" form:"image_url"`
	HeaderImageURL string `json:"header_image_url" form:"header_image_url"`
	SneakerSize    string `json:"sneaker_size" form:"sneaker_size"`
	Password       string `json:"password" form:"password"`
}

// GetUserProfile handles GET /users/:id
// @Summary Get user profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{profile=service.ProfileView}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.identity.Profile(c.UserContext(), identity(c), id)
	if err != nil {
		return s.fail(c, err, "/users")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{"profile": profile})
}

// GetFollowing handles GET /users/:id/following
// @Summary List following
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{user_id=int,following=[]models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.social.Following(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err, "/users")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{"user_id": id, "following": users})
}

// GetFollowers handles GET /users/:id/followers
// @Summary List followers
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{user_id=int,followers=[]models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.social.Followers(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err, "/users")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{"user_id": id, "followers": users})
}

// Follow handles POST /users/follow/:id
// @Summary Follow user
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 303 "Redirect to the caller's following list"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/follow/{id} [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	actor := identity(c)
	if err := s.social.Follow(c.UserContext(), actor, id); err != nil {
		return s.fail(c, err, "/users")
	}
	return s.redirect(c, profilePath(actor.UserID)+"/following", "", "")
}

// StopFollowing handles POST /users/stop-following/:id
// @Summary Stop following user
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 303 "Redirect to the caller's following list"
// @Failure 404 {object} models.ErrorResponse
// @Router /users/stop-following/{id} [post]
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	actor := identity(c)
	if err := s.social.Unfollow(c.UserContext(), actor, id); err != nil {
		return s.fail(c, err, "/users")
	}
	return s.redirect(c, profilePath(actor.UserID)+"/following", "", "")
}

// GetProfileForm handles GET /users/profile
// @Summary Profile form
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{user=models.User}
// @Router /users/profile [get]
func (s *Server) GetProfileForm(c *fiber.Ctx) error {
	actor := identity(c)
	if actor.Anonymous() {
		return s.redirect(c, "/login", flashDanger, service.AccessUnauthorizedMessage)
	}

	user, err := s.identity.GetUser(c.UserContext(), actor.UserID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return s.redirect(c, "/login", flashDanger, service.AccessUnauthorizedMessage)
		}
		return s.fail(c, err, "/")
	}
	return s.view(c, fiber.StatusOK, fiber.Map{"user": user})
}

// UpdateProfile handles POST /users/profile
// @Summary Update profile
// @Description Requires the current password
// @Tags users
// @Security BearerAuth
// @Accept x-www-form-urlencoded,json
// @Param request body profileRequest true "Profile form"
// @Success 303 "Redirect to the profile"
// @Success 303 "Redirect back to the form on a wrong password"
// @Failure 400 {object} models.ErrorResponse
// @Router /users/profile [post]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.identity.UpdateProfile(c.UserContext(), identity(c), service.UpdateProfileInput{
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		SneakerSize:    req.SneakerSize,
		Password:       req.Password,
	})
	if err != nil {
		if errMessage(err) == service.WrongPasswordMessage {
			return s.redirect(c, "/users/profile", flashDanger, service.WrongPasswordMessage)
		}
		return s.fail(c, err, "/users/profile")
	}
	return s.redirect(c, profilePath(user.ID), flashSuccess, "Profile updated successfully!")
}

// DeleteAccount handles POST /users/delete
// @Summary Delete account
// @Tags users
// @Security BearerAuth
// @Success 303 "Redirect to /signup"
// @Router /users/delete [post]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.identity.Delete(c.UserContext(), identity(c)); err != nil {
		return s.fail(c, err, "/")
	}
	s.endSession(c)
	return s.redirect(c, "/signup", "", "")
}
