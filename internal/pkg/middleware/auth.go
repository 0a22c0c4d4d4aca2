package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/RobinHaber/Roamly/internal/pkg/constants"
	"github.com/RobinHaber/Roamly/internal/pkg/env"
	"github.com/RobinHaber/Roamly/internal/pkg/session"
)

// RequireAdminAPI guards every mutating catalog route. It accepts an
// authenticated admin session, or the legacy shared-secret admin
// cookie when ADMIN_TOKEN is configured. Failures get a JSON 401; no
// handler runs, so no mutation is ever attempted unauthenticated.
func RequireAdminAPI(c *fiber.Ctx) error {
	if token := env.GetEnv("ADMIN_TOKEN", ""); token != "" {
		cookie := c.Cookies(constants.AdminCookieName)
		if cookie != "" && subtle.ConstantTimeCompare([]byte(cookie), []byte(token)) == 1 {
			return c.Next()
		}
	}

	if session.GetSessionValue(c, constants.SessionKeyIsAdmin) == "true" {
		return c.Next()
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "unauthorized",
		"message": "admin login required",
	})
}
