package repository

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobinHaber/Roamly/app/models"
)

// The database backend orders by the auto-increment position column;
// this pins the migration and the model to it so GetAll keeps returning
// insertion order. Timestamps cannot serve here: a batch insert shares
// one created_at and string ids sort lexicographically ("10" < "9").
func TestCatalogSchemaCarriesInsertionOrderColumn(t *testing.T) {
	ddl, err := os.ReadFile("../../migrations/000001_create_catalog_entries.up.sql")
	require.NoError(t, err)

	assert.Contains(t, string(ddl), "position BIGINT UNSIGNED NOT NULL AUTO_INCREMENT")
	assert.Contains(t, string(ddl), "UNIQUE KEY idx_catalog_entries_position (position)")
	assert.Contains(t, string(ddl), "created_at DATETIME(6)")

	field, ok := reflect.TypeOf(models.CatalogEntry{}).FieldByName("Position")
	require.True(t, ok, "CatalogEntry must carry the Position column")
	assert.Contains(t, field.Tag.Get("gorm"), "autoIncrement")
	assert.Equal(t, "-", field.Tag.Get("json"), "position is storage-internal")
}
