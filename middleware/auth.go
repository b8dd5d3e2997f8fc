// middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"strings"

	"scoutlink/models"
	"scoutlink/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the signed session token.
const SessionCookie = "scoutlink_session"

const principalKey = "principal"

// SessionResolver turns a session token into the caller's identity.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (services.Principal, error)
}

// RequireAuth rejects requests without a valid session and stores the
// Principal for the handlers.
func RequireAuth(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}

		principal, err := resolver.ResolveSession(c.UserContext(), token)
		if errors.Is(err, services.ErrUnauthenticated) {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}
		if err != nil {
			return err
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireRoles must run after RequireAuth.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}
		if !principal.HasRole(roles...) {
			return fiber.NewError(fiber.StatusForbidden, "Forbidden")
		}
		return c.Next()
	}
}

// GetPrincipal returns the caller stored by RequireAuth.
func GetPrincipal(c *fiber.Ctx) (services.Principal, bool) {
	principal, ok := c.Locals(principalKey).(services.Principal)
	return principal, ok
}

// MustPrincipal is GetPrincipal for handlers behind RequireAuth.
func MustPrincipal(c *fiber.Ctx) (services.Principal, error) {
	principal, ok := GetPrincipal(c)
	if !ok {
		return services.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	return principal, nil
}

// sessionToken reads the session cookie, falling back to a Bearer header for API clients.
func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}

	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
