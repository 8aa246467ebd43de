package middleware

import (
	"PantryPal/domain"
	"PantryPal/internal/api/presenters"
	"PantryPal/pkg/jwt"
	"PantryPal/pkg/user"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct {
		userRepository user.UserRepository
		cookieName     string
		allowOrigins   string
	}
)

// NewMiddleware builds the CORS and session guards. allowOrigins is a comma
// separated list; when empty any origin is accepted without credentials.
func NewMiddleware(userRepository user.UserRepository, cookieName string, allowOrigins string) Middleware {
	return &middleware{
		userRepository: userRepository,
		cookieName:     cookieName,
		allowOrigins:   allowOrigins,
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	if m.allowOrigins == "" {
		return cors.New(cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		})
	}
	return cors.New(cors.Config{
		AllowOrigins:     m.allowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	})
}

// AuthMiddleware accepts a bearer token or the session cookie. A bearer
// header, when present, is the only credential considered.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.credential(c)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, err)
		}

		email, userID, err := jwtService.GetEmailByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		u, err := m.userRepository.FindByEmail(c.Context(), email)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}
		if userID != "" && userID != u.ID {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, domain.ErrTokenInvalid)
		}

		c.Locals(domain.LocalsUserEmail, u.Email)
		c.Locals(domain.LocalsUserID, u.ID)
		return c.Next()
	}
}

func (m *middleware) credential(c *fiber.Ctx) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", fmt.Errorf("%w: malformed authorization header", domain.ErrTokenInvalid)
		}
		return strings.TrimSpace(token), nil
	}

	if m.cookieName != "" {
		if token := c.Cookies(m.cookieName); token != "" {
			return token, nil
		}
	}
	return "", domain.ErrTokenNotFound
}
