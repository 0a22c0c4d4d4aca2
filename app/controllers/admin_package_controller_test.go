package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobinHaber/Roamly/app/models"
	"github.com/RobinHaber/Roamly/app/repository"
	"github.com/RobinHaber/Roamly/internal/pkg/catalogsync"
	"github.com/RobinHaber/Roamly/internal/pkg/middleware"
	"github.com/RobinHaber/Roamly/internal/pkg/telco"
)

const testAdminToken = "test-admin-secret"

type stubLister struct {
	templates []telco.Template
	err       error
}

func (s *stubLister) ListTemplates(_ context.Context) ([]telco.Template, error) {
	return s.templates, s.err
}

func newAdminTestApp(t *testing.T, lister catalogsync.TemplateLister) (*fiber.App, repository.CatalogRepository) {
	t.Helper()
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("ADMIN_TOKEN", testAdminToken)

	repo := repository.NewCatalogFileRepository(filepath.Join(t.TempDir(), "catalog.json"))
	if lister == nil {
		lister = &stubLister{}
	}
	apc := NewAdminPackageController(repo, catalogsync.New(repo, lister))

	app := fiber.New()
	admin := app.Group("/api/v1/admin-packages", middleware.RequireAdminAPI)
	admin.Get("/", apc.HandleList)
	admin.Post("/", apc.HandleCreate)
	admin.Put("/bulk", apc.HandleBulkUpdate)
	admin.Post("/sync-telco", apc.HandleSyncTelco)
	admin.Post("/import-csv", apc.HandleImportCSV)
	admin.Get("/:id", apc.HandleGet)
	admin.Put("/:id", apc.HandleUpdate)
	admin.Delete("/:id", apc.HandleDelete)

	return app, repo
}

func adminRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "roamly_admin", Value: testAdminToken})
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAdminRoutesRejectUnauthenticatedRequests(t *testing.T) {
	app, _ := newAdminTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin-packages/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "unauthorized", body["error"])
}

func TestAdminRoutesRejectWrongCookie(t *testing.T) {
	app, _ := newAdminTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin-packages/", nil)
	req.AddCookie(&http.Cookie{Name: "roamly_admin", Value: "not-the-secret"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreatePackage(t *testing.T) {
	app, repo := newAdminTestApp(t, nil)

	payload := `{"name":"Europe 10GB","region":"Europe","countries":"Germany, France ,,Spain","price":"€19.99","highlighted":true}`
	resp, err := app.Test(adminRequest(http.MethodPost, "/api/v1/admin-packages/", strings.NewReader(payload)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Item models.CatalogEntry `json:"item"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, strings.HasPrefix(body.Item.ID, "admin-"))
	assert.Equal(t, "Europe 10GB", body.Item.Name)
	assert.Equal(t, models.StringList{"Germany", "France", "Spain"}, body.Item.Countries)
	assert.True(t, body.Item.Highlighted)

	stored, err := repo.GetByID(body.Item.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestCreatePackageRejectsMalformedBody(t *testing.T) {
	app, _ := newAdminTestApp(t, nil)

	resp, err := app.Test(adminRequest(http.MethodPost, "/api/v1/admin-packages/", strings.NewReader("{not json")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreatePackageDuplicateID(t *testing.T) {
	app, _ := newAdminTestApp(t, nil)

	payload := `{"id":"custom-1","name":"First"}`
	resp, err := app.Test(adminRequest(http.MethodPost, "/api/v1/admin-packages/", strings.NewReader(payload)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(adminRequest(http.MethodPost, "/api/v1/admin-packages/", strings.NewReader(payload)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "duplicate_id", body["error"])
}

func TestGetPackage(t *testing.T) {
	app, repo := newAdminTestApp(t, nil)

	created, err := repo.Create(&models.CatalogEntryInput{Name: "Asia 5GB"})
	require.NoError(t, err)

	resp, err := app.Test(adminRequest(http.MethodGet, "/api/v1/admin-packages/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Item models.CatalogEntry `json:"item"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, created.ID, body.Item.ID)

	resp, err = app.Test(adminRequest(http.MethodGet, "/api/v1/admin-packages/no-such-id", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdatePackage(t *testing.T) {
	app, repo := newAdminTestApp(t, nil)

	created, err := repo.Create(&models.CatalogEntryInput{Name: "Old name"})
	require.NoError(t, err)

	resp, err := app.Test(adminRequest(http.MethodPut, "/api/v1/admin-packages/"+created.ID,
		strings.NewReader(`{"name":"New name","id":"attempted-rename"}`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Item models.CatalogEntry `json:"item"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "New name", body.Item.Name)
	assert.Equal(t, created.ID, body.Item.ID)

	resp, err = app.Test(adminRequest(http.MethodPut, "/api/v1/admin-packages/no-such-id",
		strings.NewReader(`{"name":"x"}`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeletePackage(t *testing.T) {
	app, repo := newAdminTestApp(t, nil)

	created, err := repo.Create(&models.CatalogEntryInput{Name: "Doomed"})
	require.NoError(t, err)

	resp, err := app.Test(adminRequest(http.MethodDelete, "/api/v1/admin-packages/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(adminRequest(http.MethodDelete, "/api/v1/admin-packages/"+created.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBulkUpdateValidation(t *testing.T) {
	app, _ := newAdminTestApp(t, nil)

	for _, payload := range []string{
		`{"ids":[],"updates":{"price":"€5.00"}}`,
		`{"ids":["a"]}`,
	} {
		resp, err := app.Test(adminRequest(http.MethodPut, "/api/v1/admin-packages/bulk", strings.NewReader(payload)))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "payload %s", payload)
	}
}

func TestBulkUpdateAppliesPatchToSubset(t *testing.T) {
	app, repo := newAdminTestApp(t, nil)

	a, err := repo.Create(&models.CatalogEntryInput{Name: "A"})
	require.NoError(t, err)
	b, err := repo.Create(&models.CatalogEntryInput{Name: "B"})
	require.NoError(t, err)
	c, err := repo.Create(&models.CatalogEntryInput{Name: "C"})
	require.NoError(t, err)

	payload, err := json.Marshal(fiber.Map{
		"ids":     []string{a.ID, c.ID, "no-such-id"},
		"updates": fiber.Map{"price": "€7.50"},
	})
	require.NoError(t, err)

	resp, err := app.Test(adminRequest(http.MethodPut, "/api/v1/admin-packages/bulk", bytes.NewReader(payload)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Items []models.CatalogEntry `json:"items"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Items, 2)
	assert.Equal(t, a.ID, body.Items[0].ID)
	assert.Equal(t, c.ID, body.Items[1].ID)
	assert.Equal(t, "€7.50", body.Items[0].Price)

	untouched, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Empty(t, untouched.Price)
}

func TestSyncTelco(t *testing.T) {
	lister := &stubLister{templates: []telco.Template{
		{ID: 9001, Name: "Provider Europe", ByteCount: 5 * 1024 * 1024 * 1024, PeriodDays: 7, Zone: "Europe"},
	}}
	app, repo := newAdminTestApp(t, lister)

	resp, err := app.Test(adminRequest(http.MethodPost, "/api/v1/admin-packages/sync-telco", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success       bool                  `json:"success"`
		Items         []models.CatalogEntry `json:"items"`
		ImportedCount int                   `json:"importedCount"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.ImportedCount)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "9001", body.Items[0].ID)

	stored, err := repo.GetByID("9001")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestSyncTelcoUpstreamFailure(t *testing.T) {
	lister := &stubLister{err: errors.New("telco API unreachable: connection refused")}
	app, _ := newAdminTestApp(t, lister)

	resp, err := app.Test(adminRequest(http.MethodPost, "/api/v1/admin-packages/sync-telco", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeBody(t, resp, &body)
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "unreachable")
}

func TestImportCSV(t *testing.T) {
	app, repo := newAdminTestApp(t, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "packages.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,region,countries,price\nEurope 10GB,Europe,\"Germany, France\",€19.99\nAsia 3GB,Asia,Japan,€9.99\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin-packages/import-csv", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "roamly_admin", Value: testAdminToken})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Items         []models.CatalogEntry `json:"items"`
		ImportedCount int                   `json:"importedCount"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 2, body.ImportedCount)
	require.Len(t, body.Items, 2)
	assert.Equal(t, models.StringList{"Germany", "France"}, body.Items[0].Countries)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportCSVMissingFile(t *testing.T) {
	app, _ := newAdminTestApp(t, nil)

	resp, err := app.Test(adminRequest(http.MethodPost, "/api/v1/admin-packages/import-csv", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
