package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListUnmarshalCommaString(t *testing.T) {
	var got StringList
	require.NoError(t, json.Unmarshal([]byte(`"France, Spain , ,Italy"`), &got))
	assert.Equal(t, StringList{"France", "Spain", "Italy"}, got)
}

func TestStringListUnmarshalArray(t *testing.T) {
	var got StringList
	require.NoError(t, json.Unmarshal([]byte(`[" France","","Spain"]`), &got))
	assert.Equal(t, StringList{"France", "Spain"}, got)
}

func TestStringListUnmarshalRejectsObjects(t *testing.T) {
	var got StringList
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &got))
}

func TestStringListMarshalNilAsEmptyArray(t *testing.T) {
	var s StringList
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestCatalogEntryInputDefaults(t *testing.T) {
	in := CatalogEntryInput{}
	entry := in.ToEntry()

	assert.Equal(t, DefaultPackageName, entry.Name)
	assert.Equal(t, DefaultRegion, entry.Region)
	assert.Equal(t, DefaultRegion, entry.RegionGroup)
	assert.Equal(t, DefaultBestFor, entry.BestFor)
	assert.True(t, entry.ShowInRegions)
	assert.True(t, entry.ShowInCountries)
	assert.False(t, entry.Highlighted)
	assert.NotNil(t, entry.Countries)
	assert.NotNil(t, entry.Features)
	assert.NotNil(t, entry.CountryDetails)
}

func TestCatalogEntryInputRegionGroupFollowsRegion(t *testing.T) {
	in := CatalogEntryInput{Region: "Europe"}
	entry := in.ToEntry()
	assert.Equal(t, "Europe", entry.RegionGroup)
}

func TestCatalogEntryInputExplicitVisibility(t *testing.T) {
	hidden := false
	in := CatalogEntryInput{ShowInCountries: &hidden}
	entry := in.ToEntry()
	assert.True(t, entry.ShowInRegions)
	assert.False(t, entry.ShowInCountries)
}

func TestPatchApplyKeepsID(t *testing.T) {
	entry := CatalogEntry{ID: "admin-1-abc", Name: "Starter"}
	otherID := "evil-id"
	name := "Renamed"
	patch := CatalogEntryPatch{ID: &otherID, Name: &name}
	patch.Apply(&entry)

	assert.Equal(t, "admin-1-abc", entry.ID)
	assert.Equal(t, "Renamed", entry.Name)
}

func TestPatchApplyLeavesUntouchedFields(t *testing.T) {
	entry := CatalogEntry{ID: "x", Name: "Starter", Price: "€9", Highlighted: true}
	price := "€12"
	patch := CatalogEntryPatch{Price: &price}
	patch.Apply(&entry)

	assert.Equal(t, "Starter", entry.Name)
	assert.Equal(t, "€12", entry.Price)
	assert.True(t, entry.Highlighted)
}

func TestPatchApplyNormalizesLists(t *testing.T) {
	entry := CatalogEntry{ID: "x"}
	countries := StringList{" France ", "", "Spain"}
	patch := CatalogEntryPatch{Countries: &countries}
	patch.Apply(&entry)

	assert.Equal(t, StringList{"France", "Spain"}, entry.Countries)
}

func TestCatalogEntryJSONShape(t *testing.T) {
	in := CatalogEntryInput{Name: "Starter EU", Region: "Europe", Price: "€9"}
	entry := in.ToEntry()
	entry.ID = "admin-1700000000000-ab12cd"

	b, err := json.Marshal(entry)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{
		"id", "name", "region", "regionGroup", "countries", "countryDetails",
		"operators", "data", "duration", "price", "bestFor", "features",
		"highlighted", "showInRegions", "showInCountries",
	} {
		assert.Contains(t, m, key)
	}
	// gorm bookkeeping columns stay out of the wire/file format
	assert.NotContains(t, m, "CreatedAt")
	assert.NotContains(t, m, "created_at")
}
