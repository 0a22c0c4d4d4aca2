package repository

import (
	"errors"

	"github.com/RobinHaber/Roamly/app/models"
)

// ErrCatalogUnreadable marks a catalog that exists but cannot be
// parsed (corrupt JSON, non-array content). Callers can distinguish
// this from a genuinely empty catalog: read surfaces fail open to an
// empty list, write surfaces must abort instead of clobbering whatever
// the unreadable file still holds.
var ErrCatalogUnreadable = errors.New("catalog storage unreadable")

// ErrDuplicateID is returned by Create when the caller supplies an id
// that already exists in the catalog.
var ErrDuplicateID = errors.New("catalog entry id already exists")

// CatalogRepository defines the interface for catalog entry storage.
// All reads and writes of CatalogEntry records go through it; the
// single-highlight invariant and list-field normalization are enforced
// inside implementations on every write path, so swapping the backing
// store never changes caller-visible semantics.
type CatalogRepository interface {
	// GetAll returns the full catalog in insertion order.
	GetAll() ([]models.CatalogEntry, error)
	// ReplaceAll overwrites the entire catalog in one write.
	ReplaceAll(entries []models.CatalogEntry) error
	// GetByID returns (nil, nil) when the id is unknown.
	GetByID(id string) (*models.CatalogEntry, error)
	// Create assigns an id when the input has none and applies the
	// display-field defaults. A highlighted new entry clears the flag
	// on every sibling in the same write.
	Create(input *models.CatalogEntryInput) (*models.CatalogEntry, error)
	// Update merges the patch over the stored entry. Returns
	// (nil, nil) when the id is unknown; the id itself is immutable.
	Update(id string, patch *models.CatalogEntryPatch) (*models.CatalogEntry, error)
	// Delete reports whether an entry was removed.
	Delete(id string) (bool, error)
	// BulkUpdate applies one patch to every entry whose id is in ids
	// and persists the result in a single write. It returns only the
	// updated entries, in their original relative order.
	BulkUpdate(ids []string, patch *models.CatalogEntryPatch) ([]models.CatalogEntry, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Catalog CatalogRepository
}
