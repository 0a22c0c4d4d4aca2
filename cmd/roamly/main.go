package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/RobinHaber/Roamly/app/repository"
	"github.com/RobinHaber/Roamly/internal/pkg/cache"
	"github.com/RobinHaber/Roamly/internal/pkg/database"
	"github.com/RobinHaber/Roamly/internal/pkg/env"
	"github.com/RobinHaber/Roamly/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	if env.GetEnv("CATALOG_BACKEND", "file") == "mysql" {
		database.SetupDatabase()
	}
	if cache.Enabled() {
		cache.SetupCache()
	}
	repository.InitializeFactory()

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "Roamly",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	// Find the project root relative to where the binary runs
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/roamly to project root
		"../../../", // Fallback
	}
	for _, basePath := range basePaths {
		if _, err := os.Stat(basePath + "public/docs/v1/openapi.yml"); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/docs/api/",
				FilePath: basePath + "public/docs/v1/openapi.yml",
				Path:     "v1",
			}))
			break
		}
	}

	// ROUTER
	router.InstallRouter(app)

	return app
}
