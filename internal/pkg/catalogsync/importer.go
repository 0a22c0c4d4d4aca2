package catalogsync

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/RobinHaber/Roamly/app/models"
	"github.com/RobinHaber/Roamly/app/repository"
	"github.com/RobinHaber/Roamly/internal/pkg/telco"
)

const bytesPerGB = 1024 * 1024 * 1024

// TemplateLister is the slice of the Telco client the importer needs.
type TemplateLister interface {
	ListTemplates(ctx context.Context) ([]telco.Template, error)
}

// Importer runs a one-shot synchronization pass: it pulls the
// provider's template list and folds new templates into the catalog
// without disturbing manually curated entries. The merge is computed
// fully in memory before the single persisting write, so any failure
// leaves the store exactly as it was.
type Importer struct {
	repo   repository.CatalogRepository
	client TemplateLister
}

func New(repo repository.CatalogRepository, client TemplateLister) *Importer {
	return &Importer{repo: repo, client: client}
}

// Result reports one sync pass. Imported counts only newly projected
// entries; pre-existing entries are passed through untouched.
type Result struct {
	Imported int
	Entries  []models.CatalogEntry
}

func (im *Importer) Sync(ctx context.Context) (*Result, error) {
	templates, err := im.client.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	// An unreadable store must abort the pass: proceeding with an
	// empty list would clobber whatever the store still holds when we
	// persist the union below.
	existing, err := im.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("catalog not readable before import: %w", err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		known[e.ID] = struct{}{}
	}

	merged := append([]models.CatalogEntry{}, existing...)
	imported := 0
	for _, tpl := range templates {
		if !tpl.VisibleInUI() {
			continue
		}
		id := strconv.FormatInt(tpl.ID, 10)
		if _, ok := known[id]; ok {
			// Already curated; manual edits win over re-import.
			continue
		}
		merged = append(merged, projectTemplate(tpl))
		known[id] = struct{}{}
		imported++
	}

	if err := im.repo.ReplaceAll(merged); err != nil {
		return nil, err
	}

	return &Result{Imported: imported, Entries: merged}, nil
}

// projectTemplate converts a provider template into a catalog entry.
// Imported entries surface in region-based filtering only; they stay
// out of the country view until an admin opts them in.
func projectTemplate(t telco.Template) models.CatalogEntry {
	region := t.Zone
	if region == "" {
		region = models.DefaultRegion
	}

	entry := models.CatalogEntry{
		ID:              strconv.FormatInt(t.ID, 10),
		Name:            t.Name,
		Region:          region,
		RegionGroup:     region,
		Countries:       models.StringList(t.Countries),
		Data:            FormatDataAmount(t.ByteCount),
		Duration:        FormatPeriod(t.PeriodDays),
		Price:           FormatPrice(t.Cost),
		BestFor:         models.DefaultBestFor,
		Highlighted:     false,
		ShowInRegions:   true,
		ShowInCountries: false,
	}
	if entry.Name == "" {
		entry.Name = models.DefaultPackageName
	}
	entry.Normalize()
	return entry
}

// FormatDataAmount renders a provider byte count as "N.NN GB".
func FormatDataAmount(byteCount int64) string {
	return fmt.Sprintf("%.2f GB", float64(byteCount)/float64(bytesPerGB))
}

// FormatPeriod renders a validity period as "N days".
func FormatPeriod(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// FormatPrice renders a provider cost as "€C.CC"; a missing or
// negative cost falls back to €0.00.
func FormatPrice(cost decimal.Decimal) string {
	if cost.IsNegative() {
		cost = decimal.Zero
	}
	return "€" + cost.StringFixed(2)
}
