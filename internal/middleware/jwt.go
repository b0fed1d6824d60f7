package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/galvan-ai/accounts/internal/token"
)

const claimsLocalKey = "auth_claims"

// JWTAuth validates the bearer access token on every protected request
// and stores its claims in the request locals.
func JWTAuth(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "authorization token required")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		claims, err := tokens.Verify(c.UserContext(), tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		if claims.Kind != token.KindAccess {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals(claimsLocalKey, claims)
		return c.Next()
	}
}

// ClaimsFromCtx returns the verified claims stored by JWTAuth.
func ClaimsFromCtx(c *fiber.Ctx) (token.Claims, bool) {
	claims, ok := c.Locals(claimsLocalKey).(token.Claims)
	return claims, ok
}
