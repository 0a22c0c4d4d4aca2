package apiv1

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocumentIsValid(t *testing.T) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromFile("../../../public/docs/v1/openapi.yml")
	require.NoError(t, err)

	err = doc.Validate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Roamly API", doc.Info.Title)
}

func TestOpenAPIDocumentCoversAdminRoutes(t *testing.T) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromFile("../../../public/docs/v1/openapi.yml")
	require.NoError(t, err)

	for _, path := range []string{
		"/packages",
		"/packages/groups",
		"/admin-packages",
		"/admin-packages/{id}",
		"/admin-packages/bulk",
		"/admin-packages/sync-telco",
		"/admin-packages/import-csv",
		"/admin-packages/backup",
	} {
		assert.NotNil(t, doc.Paths.Find(path), "path %s missing from document", path)
	}
}
