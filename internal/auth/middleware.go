package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// LocalsUserID is the fiber.Ctx.Locals key RequireAuth stores the verified
// user id under.
const LocalsUserID = "userId"

// authCookieName is the cookie issueSession sets on register/login; kept
// in sync with internal/api's authCookieName since a token presented
// either way (§ "bearer token presented as a cookie or header") must
// authenticate identically.
const authCookieName = "lingua_relay_token"

// RequireAuth rejects requests with a missing or invalid bearer token or
// session cookie, and stores the verified user id in the request's locals
// for handlers to read.
func RequireAuth(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies(authCookieName)
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, domain.ErrAuthRequired.Error())
		}
		claims, err := m.Verify(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, domain.ErrAuthInvalid.Error())
		}
		c.Locals(LocalsUserID, claims.UserID)
		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..."
// header, or "" if the header is absent or malformed.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// UserID reads the authenticated user id stored by RequireAuth.
func UserID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalsUserID).(string)
	return v
}
