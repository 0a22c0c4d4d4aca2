package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/RobinHaber/Roamly/app/models"
	"github.com/RobinHaber/Roamly/app/repository"
	"github.com/RobinHaber/Roamly/internal/pkg/catalogsync"
	"github.com/RobinHaber/Roamly/internal/pkg/csvimport"
	"github.com/RobinHaber/Roamly/internal/pkg/env"
	"github.com/RobinHaber/Roamly/internal/pkg/s3backup"
)

// AdminPackageController handles the admin-facing catalog CRUD, bulk
// mutation, Telco synchronization and maintenance endpoints.
type AdminPackageController struct {
	repo     repository.CatalogRepository
	importer *catalogsync.Importer
}

// NewAdminPackageController creates a new admin package controller
func NewAdminPackageController(repo repository.CatalogRepository, importer *catalogsync.Importer) *AdminPackageController {
	return &AdminPackageController{
		repo:     repo,
		importer: importer,
	}
}

// HandleList returns the full catalog for the admin UI.
func (apc *AdminPackageController) HandleList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": readCatalogFailOpen(apc.repo)})
}

// HandleCreate stores a new curated package.
func (apc *AdminPackageController) HandleCreate(c *fiber.Ctx) error {
	var input models.CatalogEntryInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "invalid package payload: "+err.Error())
	}

	entry, err := apc.repo.Create(&input)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return errorJSON(c, fiber.StatusConflict, "duplicate_id", err.Error())
		}
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return errorJSON(c, fiber.StatusBadRequest, "validation_failed", err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, "storage_error", err.Error())
	}

	invalidateStorefrontCache()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": entry})
}

// HandleGet returns a single package or 404.
func (apc *AdminPackageController) HandleGet(c *fiber.Ctx) error {
	entry, err := apc.repo.GetByID(c.Params("id"))
	if err != nil {
		// Read-path leniency: an unreadable store answers like an
		// empty one.
		return errorJSON(c, fiber.StatusNotFound, "not_found", "package not found")
	}
	if entry == nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", "package not found")
	}
	return c.JSON(fiber.Map{"item": entry})
}

// HandleUpdate applies a partial patch to a package.
func (apc *AdminPackageController) HandleUpdate(c *fiber.Ctx) error {
	var patch models.CatalogEntryPatch
	if err := c.BodyParser(&patch); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "invalid patch payload: "+err.Error())
	}

	entry, err := apc.repo.Update(c.Params("id"), &patch)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "storage_error", err.Error())
	}
	if entry == nil {
		return errorJSON(c, fiber.StatusNotFound, "not_found", "package not found")
	}

	invalidateStorefrontCache()
	return c.JSON(fiber.Map{"item": entry})
}

// HandleDelete removes a package. Deletion is destructive and
// immediate; there is no soft delete.
func (apc *AdminPackageController) HandleDelete(c *fiber.Ctx) error {
	removed, err := apc.repo.Delete(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "storage_error", err.Error())
	}
	if !removed {
		return errorJSON(c, fiber.StatusNotFound, "not_found", "package not found")
	}

	invalidateStorefrontCache()
	return c.SendStatus(fiber.StatusNoContent)
}

type bulkUpdateRequest struct {
	IDs     []string                  `json:"ids"`
	Updates *models.CatalogEntryPatch `json:"updates"`
}

// HandleBulkUpdate applies one patch to every package in the id set
// and returns only the updated subset.
func (apc *AdminPackageController) HandleBulkUpdate(c *fiber.Ctx) error {
	var req bulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "invalid bulk payload: "+err.Error())
	}
	if len(req.IDs) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "ids must be a non-empty array")
	}
	if req.Updates == nil {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "updates must be an object")
	}

	items, err := apc.repo.BulkUpdate(req.IDs, req.Updates)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "storage_error", err.Error())
	}

	invalidateStorefrontCache()
	return c.JSON(fiber.Map{"items": items})
}

// HandleSyncTelco runs one import pass against the Telco provider.
func (apc *AdminPackageController) HandleSyncTelco(c *fiber.Ctx) error {
	res, err := apc.importer.Sync(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	invalidateStorefrontCache()
	return c.JSON(fiber.Map{
		"success":       true,
		"items":         res.Entries,
		"importedCount": res.Imported,
	})
}

// HandleImportCSV bulk-creates curated packages from an uploaded CSV.
func (apc *AdminPackageController) HandleImportCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "csv file upload missing")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "cannot open uploaded file: "+err.Error())
	}
	defer file.Close()

	inputs, err := csvimport.Parse(file)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	created := make([]models.CatalogEntry, 0, len(inputs))
	for i := range inputs {
		entry, err := apc.repo.Create(&inputs[i])
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateID) {
				return errorJSON(c, fiber.StatusConflict, "duplicate_id", err.Error())
			}
			return errorJSON(c, fiber.StatusInternalServerError, "storage_error", err.Error())
		}
		created = append(created, *entry)
	}

	invalidateStorefrontCache()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"items":         created,
		"importedCount": len(created),
	})
}

// HandleBackup pushes a snapshot of the catalog file to S3.
func (apc *AdminPackageController) HandleBackup(c *fiber.Ctx) error {
	if env.GetEnv("CATALOG_BACKEND", "file") != "file" {
		return errorJSON(c, fiber.StatusConflict, "unsupported_backend", "snapshots are only supported for the file backend")
	}

	cfg, err := s3backup.LoadConfig()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "backup_config_error", err.Error())
	}
	if !cfg.IsEnabled() {
		return errorJSON(c, fiber.StatusConflict, "backup_disabled", "S3 backup is disabled, set S3_BACKUP_ENABLED=true")
	}

	client, err := s3backup.NewClient(cfg)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "backup_error", err.Error())
	}

	result, err := client.UploadSnapshot(c.Context(), env.GetEnv("CATALOG_FILE", "data/catalog.json"))
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "backup_error", err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"bucket":  result.Bucket,
		"key":     result.Key,
		"size":    result.Size,
	})
}
