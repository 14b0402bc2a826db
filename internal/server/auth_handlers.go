package server

import (
	"log/slog"

	"sneakercloset/internal/middleware"
	"sneakercloset/internal/models"
	"sneakercloset/internal/service"
	"sneakercloset/internal/session"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Username  string `json:"username" form:"username"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	ImageURL  string `json:"image_url" form:"image_url"`
}

// echo is the signup form as shown back to the user, without the password.
func (r signupRequest) echo() fiber.Map {
	return fiber.Map{
		"username":   r.Username,
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"email":      r.Email,
		"image_url":  r.ImageURL,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Home handles GET /
// @Summary Home view
// @Description Identity summary for the caller; user is null when anonymous
// @Tags auth
// @Produce json
// @Success 200 {object} object{user=models.User,flash=Flash}
// @Router / [get]
func (s *Server) Home(c *fiber.Ctx) error {
	actor := identity(c)
	data := fiber.Map{"user": nil}
	if !actor.Anonymous() {
		user, err := s.identity.GetUser(c.UserContext(), actor.UserID)
		switch {
		case err == nil:
			data["user"] = user
		case !models.HasCode(err, models.CodeNotFound):
			return s.fail(c, err, "/")
		}
	}
	return s.view(c, fiber.StatusOK, data)
}

// Signup handles POST /signup. Any previous session is dropped first.
// @Summary User signup
// @Description Register a new account and start a session
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body signupRequest true "Signup form"
// @Success 303 "Redirect to /sneakers"
// @Failure 400 {object} object{flash=Flash,form=object}
// @Failure 409 {object} object{flash=Flash,form=object}
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	s.endSession(c)

	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.identity.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeConflict:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"flash": Flash{Category: flashDanger, Message: "Username or email already taken"},
				"form":  req.echo(),
			})
		case models.CodeValidation:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"flash": Flash{Category: flashDanger, Message: errMessage(err)},
				"form":  req.echo(),
			})
		}
		return s.fail(c, err, "/signup")
	}

	if err := s.startSession(c, user.ID); err != nil {
		return s.fail(c, err, "/signup")
	}
	return s.redirect(c, "/sneakers", "", "")
}

// Login handles POST /login
// @Summary User login
// @Description Authenticate and set the session cookie
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body loginRequest true "Login credentials"
// @Success 303 "Redirect to /sneakers"
// @Failure 401 {object} object{flash=Flash}
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.identity.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return s.fail(c, err, "/login")
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"flash": Flash{Category: flashDanger, Message: "Invalid credentials."},
			"form":  fiber.Map{"username": req.Username},
		})
	}

	if err := s.startSession(c, user.ID); err != nil {
		return s.fail(c, err, "/login")
	}
	return s.redirect(c, "/sneakers", flashSuccess, "Hello, "+user.Username+"!")
}

// Logout handles GET /logout
// @Summary Logout
// @Description Revoke the session token and clear the cookie
// @Tags auth
// @Success 303 "Redirect to /login"
// @Router /logout [get]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.endSession(c)
	return s.redirect(c, "/login", flashSuccess, "You have successfully logged out.")
}

func (s *Server) startSession(c *fiber.Ctx, userID uint) error {
	token, err := s.sessions.Issue(userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	session.SetCookie(c, token, s.sessions.TTL(), s.config.CookieSecure)
	return nil
}

// endSession revokes the presented token and clears the cookie. Revocation
// failures are logged; the cookie is cleared regardless.
func (s *Server) endSession(c *fiber.Ctx) {
	if claims, ok := c.Locals("claims").(*session.Claims); ok {
		if err := s.sessions.Revoke(c.UserContext(), claims); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to revoke session",
				slog.String("error", err.Error()))
		}
	}
	session.ClearCookie(c, s.config.CookieSecure)
}
