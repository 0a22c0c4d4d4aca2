package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the controllers to keep behavior consistent with
	// the rest of the app
	"github.com/RobinHaber/Roamly/app/controllers"
	"github.com/RobinHaber/Roamly/app/repository"
	"github.com/RobinHaber/Roamly/internal/pkg/catalogsync"
	"github.com/RobinHaber/Roamly/internal/pkg/middleware"
	"github.com/RobinHaber/Roamly/internal/pkg/telco"
)

// APIServer implements the public and admin v1 API surface
type APIServer struct {
	storefront    *controllers.StorefrontController
	adminPackages *controllers.AdminPackageController
	adminAuth     *controllers.AdminAuthController
}

// NewAPIServer creates a new API server instance wired against the
// global repository factory and the Telco client from the environment.
func NewAPIServer() *APIServer {
	repo := repository.GetGlobalFactory().GetCatalogRepository()
	importer := catalogsync.New(repo, telco.NewClientFromEnv())

	return &APIServer{
		storefront:    controllers.NewStorefrontController(repo),
		adminPackages: controllers.NewAdminPackageController(repo, importer),
		adminAuth:     controllers.NewAdminAuthController(),
	}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// RegisterHandlers attaches every v1 route to the given router group.
// Static admin-package subroutes are registered before the :id routes
// so "bulk" and "sync-telco" never match as ids.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	// public storefront surface
	router.Get("/packages", s.storefront.HandleListPackages)
	router.Get("/packages/groups", s.storefront.HandleListGroups)

	// admin session management
	router.Post("/admin/login", s.adminAuth.HandleLogin)
	router.Post("/admin/logout", s.adminAuth.HandleLogout)

	// admin catalog surface
	admin := router.Group("/admin-packages", middleware.RequireAdminAPI)
	admin.Get("/", s.adminPackages.HandleList)
	admin.Post("/", s.adminPackages.HandleCreate)
	admin.Put("/bulk", s.adminPackages.HandleBulkUpdate)
	admin.Post("/sync-telco", s.adminPackages.HandleSyncTelco)
	admin.Post("/import-csv", s.adminPackages.HandleImportCSV)
	admin.Post("/backup", s.adminPackages.HandleBackup)
	admin.Get("/:id", s.adminPackages.HandleGet)
	admin.Put("/:id", s.adminPackages.HandleUpdate)
	admin.Patch("/:id", s.adminPackages.HandleUpdate)
	admin.Delete("/:id", s.adminPackages.HandleDelete)
}
