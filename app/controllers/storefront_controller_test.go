package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobinHaber/Roamly/app/models"
	"github.com/RobinHaber/Roamly/app/repository"
)

func newStorefrontTestApp(t *testing.T) (*fiber.App, repository.CatalogRepository) {
	t.Helper()
	t.Setenv("CACHE_ENABLED", "false")

	repo := repository.NewCatalogFileRepository(filepath.Join(t.TempDir(), "catalog.json"))
	sc := NewStorefrontController(repo)

	app := fiber.New()
	app.Get("/api/v1/packages", sc.HandleListPackages)
	app.Get("/api/v1/packages/groups", sc.HandleListGroups)

	return app, repo
}

func seedStorefront(t *testing.T, repo repository.CatalogRepository) {
	t.Helper()
	require.NoError(t, repo.ReplaceAll([]models.CatalogEntry{
		{ID: "1", Name: "Europe 10GB", Region: "Europe", RegionGroup: "Europe", ShowInRegions: true, ShowInCountries: false},
		{ID: "2", Name: "Germany 5GB", Region: "Germany", RegionGroup: "Europe", ShowInRegions: false, ShowInCountries: true},
		{ID: "3", Name: "Asia 3GB", Region: "Asia", RegionGroup: "Asia", ShowInRegions: true, ShowInCountries: true},
		{ID: "4", Name: "Hidden", Region: "Global", RegionGroup: "Global", ShowInRegions: false, ShowInCountries: false},
	}))
}

func listPackages(t *testing.T, app *fiber.App, target string) (int, []models.CatalogEntry) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		return resp.StatusCode, nil
	}

	var body struct {
		Items []models.CatalogEntry `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body.Items
}

func TestListPackagesDefaultsToRegionView(t *testing.T) {
	app, repo := newStorefrontTestApp(t)
	seedStorefront(t, repo)

	status, items := listPackages(t, app, "/api/v1/packages")
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)
}

func TestListPackagesCountryView(t *testing.T) {
	app, repo := newStorefrontTestApp(t)
	seedStorefront(t, repo)

	status, items := listPackages(t, app, "/api/v1/packages?view=countries")
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ID)
	assert.Equal(t, "3", items[1].ID)
}

func TestListPackagesGroupFilterIsCaseInsensitive(t *testing.T) {
	app, repo := newStorefrontTestApp(t)
	seedStorefront(t, repo)

	status, items := listPackages(t, app, "/api/v1/packages?group=eurOPE")
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
}

func TestListPackagesRejectsUnknownView(t *testing.T) {
	app, repo := newStorefrontTestApp(t)
	seedStorefront(t, repo)

	status, _ := listPackages(t, app, "/api/v1/packages?view=planets")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestListPackagesEmptyCatalogReturnsEmptyArray(t *testing.T) {
	app, _ := newStorefrontTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/packages", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.JSONEq(t, "[]", string(body["items"]))
}

func TestListGroupsFirstAppearanceOrder(t *testing.T) {
	app, repo := newStorefrontTestApp(t)
	require.NoError(t, repo.ReplaceAll([]models.CatalogEntry{
		{ID: "1", Name: "A", RegionGroup: "Europe", ShowInRegions: true},
		{ID: "2", Name: "B", RegionGroup: "Asia", ShowInRegions: true},
		{ID: "3", Name: "C", RegionGroup: "Europe", ShowInRegions: true},
		{ID: "4", Name: "D", RegionGroup: "Americas", ShowInRegions: false},
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/packages/groups", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Groups []string `json:"groups"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"Europe", "Asia"}, body.Groups)
}
