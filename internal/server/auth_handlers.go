package server

import (
	"time"

	"askme/internal/middleware"
	"askme/internal/models"
	"askme/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username      string `json:"username" form:"username"`
	Email         string `json:"email" form:"email"`
	Password      string `json:"password" form:"password"`
	PasswordCheck string `json:"password_check" form:"password_check"`
	Nickname      string `json:"nickname" form:"nickname"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles user registration
// @Summary Register a new user
// @Description Create a user and profile and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Signup(c.UserContext(), service.SignupInput{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		PasswordCheck: req.PasswordCheck,
		Nickname:      req.Nickname,
	})
	if err != nil {
		return respondError(c, err)
	}

	token, _, err := middleware.IssueToken(s.config.JWTSecret, user.ID, time.Now())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

// Login handles user authentication
// @Summary Login
// @Description Exchange username and password for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, _, err := middleware.IssueToken(s.config.JWTSecret, user.ID, time.Now())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(AuthResponse{Token: token, User: user})
}

// Logout revokes the presented token until it expires.
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*middleware.AccessClaims)
	if ok && claims.JTI != "" && s.redis != nil {
		ttl := time.Until(claims.ExpiresAt)
		if ttl > 0 {
			if err := s.redis.Set(c.UserContext(), middleware.RevocationKey(claims.JTI), "1", ttl).Err(); err != nil {
				return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
			}
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}
