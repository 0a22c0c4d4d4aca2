package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RobinHaber/Roamly/app/models"
)

// Parse reads an admin-supplied CSV of package offerings and returns
// one create input per row. The first row must be a header; column
// names match the JSON field names of a catalog entry (case
// insensitive). List columns use comma separation inside the cell,
// boolean columns accept anything strconv.ParseBool does.
func Parse(r io.Reader) ([]models.CatalogEntryInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("csv header must contain a name column")
	}

	var inputs []models.CatalogEntryInput
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		input := models.CatalogEntryInput{
			ID:          cell("id"),
			Name:        cell("name"),
			Region:      cell("region"),
			RegionGroup: cell("regiongroup"),
			Countries:   models.SplitList(cell("countries")),
			Operators:   models.SplitList(cell("operators")),
			Data:        cell("data"),
			Duration:    cell("duration"),
			Price:       cell("price"),
			BestFor:     cell("bestfor"),
			Features:    models.SplitList(cell("features")),
		}

		if v := cell("highlighted"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: invalid highlighted value %q", line, v)
			}
			input.Highlighted = b
		}
		if v := cell("showinregions"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: invalid showInRegions value %q", line, v)
			}
			input.ShowInRegions = &b
		}
		if v := cell("showincountries"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: invalid showInCountries value %q", line, v)
			}
			input.ShowInCountries = &b
		}

		inputs = append(inputs, input)
	}

	return inputs, nil
}
