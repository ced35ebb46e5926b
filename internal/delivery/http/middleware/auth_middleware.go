package middleware

import (
	"strings"

	deliverycontext "taskhub/internal/delivery/context"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/service"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrAuthRequired
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrAccessTokenInvalid
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return err
		}

		// Set the actor on the context for handlers to use
		deliverycontext.SetActor(c, usecase.Actor{
			ID:   claims.UserID,
			Role: claims.Role,
		})

		return next(c)
	}
}

// RequireAdmin restricts a route to administrators.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := deliverycontext.GetActor(c)
		if !ok {
			return domainerrors.ErrAuthRequired
		}
		if !actor.IsAdmin() {
			return domainerrors.ErrForbidden
		}

		return next(c)
	}
}
