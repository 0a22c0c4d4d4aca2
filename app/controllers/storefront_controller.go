package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/RobinHaber/Roamly/app/models"
	"github.com/RobinHaber/Roamly/app/repository"
	"github.com/RobinHaber/Roamly/internal/pkg/cache"
	"github.com/RobinHaber/Roamly/internal/pkg/constants"
)

const storefrontCacheTTL = 5 * time.Minute

// StorefrontController serves the public, read-only catalog listing
// the web shop and the mobile app render.
type StorefrontController struct {
	repo repository.CatalogRepository
}

// NewStorefrontController creates a new storefront controller
func NewStorefrontController(repo repository.CatalogRepository) *StorefrontController {
	return &StorefrontController{repo: repo}
}

// HandleListPackages returns the visible catalog for one filter view.
// view=regions (default) shows entries flagged showInRegions,
// view=countries those flagged showInCountries; group narrows the
// result to one regionGroup.
func (sc *StorefrontController) HandleListPackages(c *fiber.Ctx) error {
	view := c.Query("view", "regions")
	if view != "regions" && view != "countries" {
		return errorJSON(c, fiber.StatusBadRequest, "bad_request", "view must be regions or countries")
	}
	group := strings.TrimSpace(c.Query("group", ""))

	cacheKey := fmt.Sprintf("%s:%s:%s", constants.StorefrontCachePrefix, view, group)
	if cache.Enabled() {
		if cached, err := cache.Get(cacheKey); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}
	}

	entries := readCatalogFailOpen(sc.repo)
	items := make([]models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if view == "countries" && !e.ShowInCountries {
			continue
		}
		if view == "regions" && !e.ShowInRegions {
			continue
		}
		if group != "" && !strings.EqualFold(e.RegionGroup, group) {
			continue
		}
		items = append(items, e)
	}

	body, err := json.Marshal(fiber.Map{"items": items})
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "internal_error", err.Error())
	}

	if cache.Enabled() {
		if err := cache.Set(cacheKey, string(body), storefrontCacheTTL); err != nil {
			log.Printf("storefront cache write failed: %v", err)
		}
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// HandleListGroups returns the distinct regionGroup values of the
// region view, in first-appearance order, for the storefront filter
// bar.
func (sc *StorefrontController) HandleListGroups(c *fiber.Ctx) error {
	entries := readCatalogFailOpen(sc.repo)

	seen := map[string]bool{}
	groups := []string{}
	for _, e := range entries {
		if !e.ShowInRegions || e.RegionGroup == "" {
			continue
		}
		if !seen[e.RegionGroup] {
			seen[e.RegionGroup] = true
			groups = append(groups, e.RegionGroup)
		}
	}

	return c.JSON(fiber.Map{"groups": groups})
}
