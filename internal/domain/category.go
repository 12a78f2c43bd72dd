package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category tag is not one of the
// supported dataset kinds.
var ErrUnknownCategory = errors.New("unknown dataset category")

// Category is the dataset kind a search view is opened for. It selects the
// offered filter fields, the meaningful canonical fields, and how the
// metadata blob is interpreted. The string value is the wire tag sent as the
// "type" query parameter.
type Category string

const (
	CategoryPointImpact    Category = "meteorite"
	CategoryClimate        Category = "climate"
	CategoryWind           Category = "wind"
	CategoryVegetation     Category = "vegetation"
	CategoryInfrastructure Category = "infrastructure"
	CategoryFire           Category = "fire"
)

// Categories returns every supported category in display order.
func Categories() []Category {
	return []Category{
		CategoryPointImpact,
		CategoryClimate,
		CategoryWind,
		CategoryVegetation,
		CategoryInfrastructure,
		CategoryFire,
	}
}

// ParseCategory normalizes a user- or URL-supplied tag. "point-impact" is
// accepted as an alias for the meteorite wire tag.
func ParseCategory(s string) (Category, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	if tag == "point-impact" {
		return CategoryPointImpact, nil
	}
	c := Category(tag)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the six supported categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPointImpact, CategoryClimate, CategoryWind,
		CategoryVegetation, CategoryInfrastructure, CategoryFire:
		return true
	default:
		return false
	}
}

func (c Category) DisplayName() string {
	switch c {
	case CategoryPointImpact:
		return "Meteorites"
	case CategoryClimate:
		return "Climate Stations"
	case CategoryWind:
		return "Wind Observations"
	case CategoryVegetation:
		return "Vegetation Zones"
	case CategoryInfrastructure:
		return "Infrastructure"
	case CategoryFire:
		return "Fire Data"
	default:
		return "Data Points"
	}
}

func (c Category) Icon() string {
	switch c {
	case CategoryPointImpact:
		return "☄️"
	case CategoryClimate:
		return "🌡️"
	case CategoryWind:
		return "💨"
	case CategoryVegetation:
		return "🌿"
	case CategoryInfrastructure:
		return "🏗️"
	case CategoryFire:
		return "🔥"
	default:
		return "📍"
	}
}

// Title is the icon glyph followed by the display name, e.g. "💨 Wind Observations".
func (c Category) Title() string {
	return c.Icon() + " " + c.DisplayName()
}

// SearchTitle is the heading of the search form for the category.
func (c Category) SearchTitle() string {
	switch c {
	case CategoryPointImpact:
		return "☄️ Search Meteorites"
	case CategoryClimate:
		return "🌡️ Search Climate Data"
	case CategoryWind:
		return "💨 Search Wind Data"
	case CategoryVegetation:
		return "🌿 Search Vegetation Data"
	case CategoryInfrastructure:
		return "🏗️ Search Infrastructure Data"
	case CategoryFire:
		return "🔥 Search Fire Data"
	default:
		return "🔎 Search Data"
	}
}

// ResultHeading summarizes a result set, e.g. "🔥 Fire Data - Found 12 Records".
func ResultHeading(c Category, n int) string {
	return fmt.Sprintf("%s - Found %d Records", c.Title(), n)
}

// FilterField describes one input a search form offers for a category.
type FilterField struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Default     string `json:"default,omitempty"`
}

// FilterFields lists the search inputs offered for a category. Field names are
// the ones users type into; legacy names are remapped by BuildQuery.
func FilterFields(c Category) []FilterField {
	location := FilterField{Name: "location", Placeholder: "LOCATION"}

	switch c {
	case CategoryPointImpact:
		return []FilterField{
			{Name: "year_start", Placeholder: "YEAR START", Default: "1900"},
			{Name: "year_end", Placeholder: "YEAR END", Default: "2025"},
			{Name: "recclass", Placeholder: "METEORITE CLASS"},
			{Name: "mass_min", Placeholder: "MASS MIN (g)"},
			{Name: "mass_max", Placeholder: "MASS MAX (g)"},
			location,
		}
	case CategoryClimate:
		return valueRangeFields("TEMP MIN (°C)", "TEMP MAX (°C)", location)
	case CategoryWind:
		return valueRangeFields("WIND SPEED MIN (m/s)", "WIND SPEED MAX (m/s)", location)
	case CategoryVegetation:
		return valueRangeFields("AREA MIN (m²)", "AREA MAX (m²)", location)
	default:
		return valueRangeFields("VALUE MIN", "VALUE MAX", location)
	}
}

func valueRangeFields(minLabel, maxLabel string, location FilterField) []FilterField {
	return []FilterField{
		{Name: "value_min", Placeholder: minLabel},
		{Name: "value_max", Placeholder: maxLabel},
		location,
	}
}
