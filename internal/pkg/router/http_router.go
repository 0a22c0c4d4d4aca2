package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RobinHaber/Roamly/internal/pkg/cache"
	"github.com/RobinHaber/Roamly/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Redis-backed sessions need the cache server; without it the
	// admin falls back to the shared-secret cookie.
	if cache.Enabled() {
		session.NewSessionStore()
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "roamly",
			"docs":    "/docs/api/v1",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
