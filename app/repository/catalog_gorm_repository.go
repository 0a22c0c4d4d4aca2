package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/RobinHaber/Roamly/app/models"
)

// catalogGormRepository is the database-backed implementation of
// CatalogRepository. It mirrors the file store's semantics, including
// the centralized highlight enforcement, so callers cannot tell the
// backends apart. Insertion order is preserved through the
// auto-increment position column.
type catalogGormRepository struct {
	db *gorm.DB
}

// NewCatalogGormRepository creates a new database-backed catalog repository instance
func NewCatalogGormRepository(db *gorm.DB) CatalogRepository {
	return &catalogGormRepository{db: db}
}

func (r *catalogGormRepository) GetAll() ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := r.db.Order("position ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnreadable, err)
	}
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	return entries, nil
}

func (r *catalogGormRepository) ReplaceAll(entries []models.CatalogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CatalogEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].Normalize()
		}
		return tx.Create(&entries).Error
	})
}

func (r *catalogGormRepository) GetByID(id string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	err := r.db.Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *catalogGormRepository) Create(input *models.CatalogEntryInput) (*models.CatalogEntry, error) {
	entry := input.ToEntry()
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if entry.ID == "" {
			existing, err := allIDs(tx)
			if err != nil {
				return err
			}
			entry.ID = newAdminID(existing)
		} else {
			var count int64
			if err := tx.Model(&models.CatalogEntry{}).Where("id = ?", entry.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("%w: %s", ErrDuplicateID, entry.ID)
			}
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		if entry.Highlighted {
			return clearOtherHighlights(tx, entry.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *catalogGormRepository) Update(id string, patch *models.CatalogEntryPatch) (*models.CatalogEntry, error) {
	var updated *models.CatalogEntry
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var entry models.CatalogEntry
		err := tx.Where("id = ?", id).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		patch.Apply(&entry)
		entry.ID = id
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		if patch.Highlighted != nil && *patch.Highlighted {
			if err := clearOtherHighlights(tx, id); err != nil {
				return err
			}
		}
		updated = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *catalogGormRepository) Delete(id string) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&models.CatalogEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *catalogGormRepository) BulkUpdate(ids []string, patch *models.CatalogEntryPatch) ([]models.CatalogEntry, error) {
	var updated []models.CatalogEntry
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var entries []models.CatalogEntry
		if err := tx.Where("id IN ?", ids).Order("position ASC").Find(&entries).Error; err != nil {
			return err
		}

		lastMatched := ""
		for i := range entries {
			id := entries[i].ID
			patch.Apply(&entries[i])
			entries[i].ID = id
			if err := tx.Save(&entries[i]).Error; err != nil {
				return err
			}
			lastMatched = id
		}

		if patch.Highlighted != nil && *patch.Highlighted && lastMatched != "" {
			if err := clearOtherHighlights(tx, lastMatched); err != nil {
				return err
			}
			// Mirror the database state so the returned slice never
			// reports more than one highlighted entry.
			for i := range entries {
				if entries[i].ID != lastMatched {
					entries[i].Highlighted = false
				}
			}
		}
		updated = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = []models.CatalogEntry{}
	}
	return updated, nil
}

func allIDs(tx *gorm.DB) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := tx.Select("id").Find(&entries).Error
	return entries, err
}

func clearOtherHighlights(tx *gorm.DB, keepID string) error {
	return tx.Model(&models.CatalogEntry{}).
		Where("id <> ? AND highlighted = ?", keepID, true).
		Update("highlighted", false).Error
}
