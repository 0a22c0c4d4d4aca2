package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/RobinHaber/Roamly/app/models"
	"github.com/RobinHaber/Roamly/app/repository"
	"github.com/RobinHaber/Roamly/internal/pkg/cache"
	"github.com/RobinHaber/Roamly/internal/pkg/constants"
)

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

// readCatalogFailOpen returns the full catalog, mapping an unreadable
// store to an empty list so the admin UI and storefront stay usable.
// The reason is logged because an empty result can then mean either
// "no entries" or "storage unreadable".
func readCatalogFailOpen(repo repository.CatalogRepository) []models.CatalogEntry {
	entries, err := repo.GetAll()
	if err != nil {
		if errors.Is(err, repository.ErrCatalogUnreadable) {
			log.Printf("catalog read failed, serving empty list: %v", err)
			return []models.CatalogEntry{}
		}
		log.Printf("catalog read failed: %v", err)
		return []models.CatalogEntry{}
	}
	return entries
}

// invalidateStorefrontCache drops every cached public listing variant.
// Best effort; a cold cache only costs the next reader one store read.
func invalidateStorefrontCache() {
	if !cache.Enabled() {
		return
	}
	if err := cache.DeleteByPattern(constants.StorefrontCachePrefix + "*"); err != nil {
		log.Printf("storefront cache invalidation failed: %v", err)
	}
}
