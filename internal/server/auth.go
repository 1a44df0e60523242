package server

import (
	"context"

	"askme/internal/middleware"
	"askme/internal/models"

	"github.com/gofiber/fiber/v2"
)

// authenticate validates the bearer token and checks it against the
// revocation list.
func (s *Server) authenticate(c *fiber.Ctx) (*middleware.AccessClaims, error) {
	tokenString, ok := middleware.BearerToken(c)
	if !ok {
		return nil, models.NewUnauthorizedError("Authorization required")
	}

	claims, err := middleware.ParseToken(s.config.JWTSecret, tokenString)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	if claims.JTI != "" && s.redis != nil {
		revoked, err := s.redis.Exists(c.UserContext(), middleware.RevocationKey(claims.JTI)).Result()
		if err == nil && revoked > 0 {
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}
	return claims, nil
}

func setUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}

// AuthRequired rejects requests without a valid, unrevoked access token.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := s.authenticate(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		c.Locals("claims", claims)
		setUser(c, claims.UserID)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through otherwise.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := s.authenticate(c); err == nil {
			c.Locals("claims", claims)
			setUser(c, claims.UserID)
		}
		return c.Next()
	}
}
