package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RobinHaber/Roamly/app/models"
)

// catalogFileRepository persists the whole catalog as one
// pretty-printed JSON array in a single file. Every write is a full
// read-modify-write of that file; there is no cross-process locking,
// which is acceptable for the low-frequency admin traffic this store
// serves.
type catalogFileRepository struct {
	path string
}

// NewCatalogFileRepository creates a file-backed catalog repository
func NewCatalogFileRepository(path string) CatalogRepository {
	return &catalogFileRepository{path: path}
}

func (r *catalogFileRepository) load() ([]models.CatalogEntry, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		// A missing file means a fresh install; materialize an empty
		// catalog so later reads and external tooling see valid JSON.
		if writeErr := r.write([]models.CatalogEntry{}); writeErr != nil {
			return nil, writeErr
		}
		return []models.CatalogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCatalogUnreadable, r.path, err)
	}

	var entries []models.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCatalogUnreadable, r.path, err)
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	return entries, nil
}

func (r *catalogFileRepository) write(entries []models.CatalogEntry) error {
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", r.path, err)
	}
	return nil
}

func (r *catalogFileRepository) GetAll() ([]models.CatalogEntry, error) {
	return r.load()
}

func (r *catalogFileRepository) ReplaceAll(entries []models.CatalogEntry) error {
	return r.write(entries)
}

func (r *catalogFileRepository) GetByID(id string) (*models.CatalogEntry, error) {
	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			entry := entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *catalogFileRepository) Create(input *models.CatalogEntryInput) (*models.CatalogEntry, error) {
	entries, err := r.load()
	if err != nil {
		return nil, err
	}

	entry := input.ToEntry()
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if entry.ID == "" {
		entry.ID = newAdminID(entries)
	} else if indexByID(entries, entry.ID) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, entry.ID)
	}

	entries = append(entries, entry)
	if entry.Highlighted {
		enforceSingleHighlight(entries, entry.ID)
	}
	if err := r.write(entries); err != nil {
		return nil, err
	}
	created := entries[len(entries)-1]
	return &created, nil
}

func (r *catalogFileRepository) Update(id string, patch *models.CatalogEntryPatch) (*models.CatalogEntry, error) {
	entries, err := r.load()
	if err != nil {
		return nil, err
	}

	idx := indexByID(entries, id)
	if idx < 0 {
		return nil, nil
	}

	patch.Apply(&entries[idx])
	entries[idx].ID = id
	if patch.Highlighted != nil && *patch.Highlighted {
		enforceSingleHighlight(entries, id)
	}
	if err := r.write(entries); err != nil {
		return nil, err
	}
	updated := entries[idx]
	return &updated, nil
}

func (r *catalogFileRepository) Delete(id string) (bool, error) {
	entries, err := r.load()
	if err != nil {
		return false, err
	}

	idx := indexByID(entries, id)
	if idx < 0 {
		return false, nil
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	if err := r.write(entries); err != nil {
		return false, err
	}
	return true, nil
}

func (r *catalogFileRepository) BulkUpdate(ids []string, patch *models.CatalogEntryPatch) ([]models.CatalogEntry, error) {
	entries, err := r.load()
	if err != nil {
		return nil, err
	}

	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	lastMatched := ""
	matched := make([]int, 0, len(ids))
	for i := range entries {
		if _, ok := selected[entries[i].ID]; !ok {
			continue
		}
		id := entries[i].ID
		patch.Apply(&entries[i])
		entries[i].ID = id
		lastMatched = id
		matched = append(matched, i)
	}

	// The invariant holds for bulk writes too: when the patch turns
	// the highlight on for several entries, the last one in catalog
	// order keeps it.
	if patch.Highlighted != nil && *patch.Highlighted && lastMatched != "" {
		enforceSingleHighlight(entries, lastMatched)
	}

	if err := r.write(entries); err != nil {
		return nil, err
	}

	updated := make([]models.CatalogEntry, 0, len(matched))
	for _, i := range matched {
		updated = append(updated, entries[i])
	}
	return updated, nil
}

func indexByID(entries []models.CatalogEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

// enforceSingleHighlight clears the highlighted flag on every entry
// except keepID. At most one catalog entry is ever highlighted.
func enforceSingleHighlight(entries []models.CatalogEntry, keepID string) {
	for i := range entries {
		if entries[i].ID != keepID {
			entries[i].Highlighted = false
		}
	}
}

// newAdminID builds an admin-assigned id and makes sure it does not
// collide with an existing entry.
func newAdminID(existing []models.CatalogEntry) string {
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		id := fmt.Sprintf("admin-%d-%s", time.Now().UnixMilli(), suffix)
		if indexByID(existing, id) < 0 {
			return id
		}
	}
}
