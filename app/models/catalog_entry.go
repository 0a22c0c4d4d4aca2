package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Fallback display values applied when an admin submits a package
// without the corresponding field.
const (
	DefaultPackageName = "Untitled package"
	DefaultRegion      = "Global"
	DefaultBestFor     = "Travel data package"
)

// StringList is a list-like catalog field (countries, operators,
// features). Admin forms historically submitted these as a single
// comma-separated string, so it unmarshals from either a JSON array or
// a delimited string. Every element is trimmed and empty elements are
// dropped, regardless of the input form.
type StringList []string

func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

func (s *StringList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*s = normalizeStrings(arr)
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*s = SplitList(single)
		return nil
	}
	return fmt.Errorf("list field must be a string or an array of strings")
}

// SplitList turns a comma-separated form value into a normalized list.
func SplitList(raw string) StringList {
	return normalizeStrings(strings.Split(raw, ","))
}

func normalizeStrings(in []string) StringList {
	out := StringList{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CountryDetail is the structured per-country record, a richer
// optional superset of the flat countries list.
type CountryDetail struct {
	Name      string     `json:"name"`
	Flag      string     `json:"flag"`
	Operators StringList `json:"operators"`
}

// CountryDetailList exists so the field gets a non-null JSON encoding
// and a GORM JSON column like the other list fields.
type CountryDetailList []CountryDetail

func (l CountryDetailList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]CountryDetail(l))
}

// CatalogEntry is one purchasable eSIM package offering. Entries come
// from two sources: curated by an admin (id "admin-<millis>-<suffix>")
// or imported from the Telco provider (id = stringified template id).
type CatalogEntry struct {
	ID              string            `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name            string            `gorm:"type:varchar(255)" json:"name" validate:"required,max=255"`
	Region          string            `gorm:"type:varchar(255)" json:"region"`
	RegionGroup     string            `gorm:"type:varchar(255);index" json:"regionGroup"`
	Countries       StringList        `gorm:"serializer:json;type:text" json:"countries"`
	CountryDetails  CountryDetailList `gorm:"serializer:json;type:text" json:"countryDetails"`
	Operators       StringList        `gorm:"serializer:json;type:text" json:"operators"`
	Data            string            `gorm:"type:varchar(64)" json:"data"`
	Duration        string            `gorm:"type:varchar(64)" json:"duration"`
	Price           string            `gorm:"type:varchar(64)" json:"price"`
	BestFor         string            `gorm:"type:varchar(255)" json:"bestFor"`
	Features        StringList        `gorm:"serializer:json;type:text" json:"features"`
	Highlighted     bool              `gorm:"type:tinyint(1);default:0" json:"highlighted"`
	ShowInRegions   bool              `gorm:"type:tinyint(1);default:1" json:"showInRegions"`
	ShowInCountries bool              `gorm:"type:tinyint(1);default:1" json:"showInCountries"`
	// Position tracks insertion order in the database backend. A
	// timestamp cannot do this: batch inserts share one created_at and
	// string ids sort lexicographically.
	Position  uint64    `gorm:"autoIncrement;uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"type:datetime(6);autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"type:datetime(6);autoUpdateTime" json:"-"`
}

// TableName specifies the table name for the CatalogEntry model
func (CatalogEntry) TableName() string {
	return "catalog_entries"
}

func (e *CatalogEntry) Validate() error {
	v := validator.New()

	return v.Struct(e)
}

// Normalize trims display strings and guarantees the list fields are
// non-nil so the persisted JSON always contains arrays. It runs on
// every repository write path, whichever entry point produced the
// record.
func (e *CatalogEntry) Normalize() {
	e.ID = strings.TrimSpace(e.ID)
	e.Name = strings.TrimSpace(e.Name)
	e.Region = strings.TrimSpace(e.Region)
	e.RegionGroup = strings.TrimSpace(e.RegionGroup)
	e.Data = strings.TrimSpace(e.Data)
	e.Duration = strings.TrimSpace(e.Duration)
	e.Price = strings.TrimSpace(e.Price)
	e.BestFor = strings.TrimSpace(e.BestFor)
	e.Countries = normalizeStrings(e.Countries)
	e.Operators = normalizeStrings(e.Operators)
	e.Features = normalizeStrings(e.Features)
	if e.CountryDetails == nil {
		e.CountryDetails = CountryDetailList{}
	}
	for i := range e.CountryDetails {
		e.CountryDetails[i].Name = strings.TrimSpace(e.CountryDetails[i].Name)
		e.CountryDetails[i].Operators = normalizeStrings(e.CountryDetails[i].Operators)
	}
}

// CatalogEntryInput is the create payload. Boolean visibility flags
// are pointers so an omitted flag can default to true.
type CatalogEntryInput struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Region          string            `json:"region"`
	RegionGroup     string            `json:"regionGroup"`
	Countries       StringList        `json:"countries"`
	CountryDetails  CountryDetailList `json:"countryDetails"`
	Operators       StringList        `json:"operators"`
	Data            string            `json:"data"`
	Duration        string            `json:"duration"`
	Price           string            `json:"price"`
	BestFor         string            `json:"bestFor"`
	Features        StringList        `json:"features"`
	Highlighted     bool              `json:"highlighted"`
	ShowInRegions   *bool             `json:"showInRegions"`
	ShowInCountries *bool             `json:"showInCountries"`
}

// ToEntry projects the input into a CatalogEntry with defaults applied.
// The id is left empty when the caller did not supply one; the
// repository assigns it.
func (in *CatalogEntryInput) ToEntry() CatalogEntry {
	entry := CatalogEntry{
		ID:              strings.TrimSpace(in.ID),
		Name:            strings.TrimSpace(in.Name),
		Region:          strings.TrimSpace(in.Region),
		RegionGroup:     strings.TrimSpace(in.RegionGroup),
		Countries:       in.Countries,
		CountryDetails:  in.CountryDetails,
		Operators:       in.Operators,
		Data:            in.Data,
		Duration:        in.Duration,
		Price:           in.Price,
		BestFor:         strings.TrimSpace(in.BestFor),
		Features:        in.Features,
		Highlighted:     in.Highlighted,
		ShowInRegions:   true,
		ShowInCountries: true,
	}
	if entry.Name == "" {
		entry.Name = DefaultPackageName
	}
	if entry.Region == "" {
		entry.Region = DefaultRegion
	}
	if entry.RegionGroup == "" {
		entry.RegionGroup = entry.Region
	}
	if entry.BestFor == "" {
		entry.BestFor = DefaultBestFor
	}
	if in.ShowInRegions != nil {
		entry.ShowInRegions = *in.ShowInRegions
	}
	if in.ShowInCountries != nil {
		entry.ShowInCountries = *in.ShowInCountries
	}
	entry.Normalize()
	return entry
}

// CatalogEntryPatch is a partial update. Nil fields are left alone; the
// id can never be changed through a patch.
type CatalogEntryPatch struct {
	ID              *string            `json:"id"`
	Name            *string            `json:"name"`
	Region          *string            `json:"region"`
	RegionGroup     *string            `json:"regionGroup"`
	Countries       *StringList        `json:"countries"`
	CountryDetails  *CountryDetailList `json:"countryDetails"`
	Operators       *StringList        `json:"operators"`
	Data            *string            `json:"data"`
	Duration        *string            `json:"duration"`
	Price           *string            `json:"price"`
	BestFor         *string            `json:"bestFor"`
	Features        *StringList        `json:"features"`
	Highlighted     *bool              `json:"highlighted"`
	ShowInRegions   *bool              `json:"showInRegions"`
	ShowInCountries *bool              `json:"showInCountries"`
}

// Apply merges the patch over the entry. The entry keeps its id
// regardless of what the patch carries.
func (p *CatalogEntryPatch) Apply(e *CatalogEntry) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Region != nil {
		e.Region = *p.Region
	}
	if p.RegionGroup != nil {
		e.RegionGroup = *p.RegionGroup
	}
	if p.Countries != nil {
		e.Countries = *p.Countries
	}
	if p.CountryDetails != nil {
		e.CountryDetails = *p.CountryDetails
	}
	if p.Operators != nil {
		e.Operators = *p.Operators
	}
	if p.Data != nil {
		e.Data = *p.Data
	}
	if p.Duration != nil {
		e.Duration = *p.Duration
	}
	if p.Price != nil {
		e.Price = *p.Price
	}
	if p.BestFor != nil {
		e.BestFor = *p.BestFor
	}
	if p.Highlighted != nil {
		e.Highlighted = *p.Highlighted
	}
	if p.ShowInRegions != nil {
		e.ShowInRegions = *p.ShowInRegions
	}
	if p.ShowInCountries != nil {
		e.ShowInCountries = *p.ShowInCountries
	}
	e.Normalize()
}
