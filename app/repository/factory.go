package repository

import (
	"sync"

	"github.com/RobinHaber/Roamly/internal/pkg/database"
	"github.com/RobinHaber/Roamly/internal/pkg/env"
)

// Factory manages repository instances and ensures they are singletons.
// The catalog backend is chosen once from the environment: the JSON
// file store by default, MySQL when CATALOG_BACKEND=mysql.
type Factory struct {
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory() *Factory {
	return &Factory{}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = &Repositories{
			Catalog: newCatalogRepositoryFromEnv(),
		}
	})
	return f.repos
}

// GetCatalogRepository returns the catalog repository instance
func (f *Factory) GetCatalogRepository() CatalogRepository {
	return f.GetRepositories().Catalog
}

func newCatalogRepositoryFromEnv() CatalogRepository {
	switch env.GetEnv("CATALOG_BACKEND", "file") {
	case "mysql":
		return NewCatalogGormRepository(database.GetDB())
	default:
		return NewCatalogFileRepository(env.GetEnv("CATALOG_FILE", "data/catalog.json"))
	}
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory() {
	factoryOnce.Do(func() {
		globalFactory = NewFactory()
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
