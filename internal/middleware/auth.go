package middleware

import (
	"net/http"
	"strings"

	"invoicely/internal/auth"
	"invoicely/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireAuth extracts and verifies the bearer token on every protected
// request and attaches the verified identity to the request context. A missing
// token is a 401; a token that fails verification, including expiry, is a 403.
func RequireAuth(tokens *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return common.SendError(c, http.StatusUnauthorized, "Access token required")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				return common.SendError(c, http.StatusForbidden, "Invalid or expired token")
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				return common.SendError(c, http.StatusForbidden, "Invalid or expired token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return common.SendError(c, http.StatusForbidden, "Invalid or expired token")
			}

			ctx := common.WithIdentity(c.Request().Context(), common.Identity{
				UserID: userID,
				Email:  claims.Email,
				Name:   claims.Name,
			})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
