package domain

import "fmt"

// UnknownValue is shown when a record has no usable primary value.
const UnknownValue = "Unknown"

// defaultClimateUnit applies when neither the metadata blob nor the record
// carries a unit.
const defaultClimateUnit = "°C"

// maxGenericEntries caps the verbatim metadata breakdown for categories
// without a dedicated field set.
const maxGenericEntries = 3

// Field is one labelled line of a card's metadata breakdown.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Presentation is everything a result card shows besides the location line.
type Presentation struct {
	Title      string  `json:"title"`
	Icon       string  `json:"icon"`
	ValueLabel string  `json:"value_label"`
	Value      string  `json:"value"`
	Breakdown  []Field `json:"breakdown"`
}

// Presenter derives display semantics for one category.
type Presenter interface {
	Present(rec DisplayRecord) Presentation
}

// PresenterFor selects the presenter for a category. Infrastructure, fire and
// any unrecognized tag share the generic presenter.
func PresenterFor(c Category) Presenter {
	switch c {
	case CategoryPointImpact:
		return pointImpactPresenter{}
	case CategoryClimate:
		return climatePresenter{}
	case CategoryWind:
		return windPresenter{}
	case CategoryVegetation:
		return vegetationPresenter{}
	default:
		return genericPresenter{category: c}
	}
}

func basePresentation(c Category) Presentation {
	return Presentation{Title: c.Title(), Icon: c.Icon(), Breakdown: []Field{}}
}

type pointImpactPresenter struct{}

func (pointImpactPresenter) Present(rec DisplayRecord) Presentation {
	p := basePresentation(CategoryPointImpact)
	p.ValueLabel = "Mass"
	p.Value = UnknownValue
	if rec.Mass != nil {
		p.Value = formatNumber(*rec.Mass) + "g"
	}

	class := "N/A"
	if rec.Class != nil {
		class = *rec.Class
	}
	year := UnknownValue
	if rec.Year != nil {
		year = fmt.Sprint(*rec.Year)
	}
	p.Breakdown = append(p.Breakdown, Field{"Class", class}, Field{"Year", year})
	return p
}

type climatePresenter struct{}

func (climatePresenter) Present(rec DisplayRecord) Presentation {
	p := basePresentation(CategoryClimate)
	md := validMetadata(rec.Metadata)

	p.ValueLabel = "Climate Value"
	if md.ClimateType != nil {
		p.ValueLabel = climateLabel(*md.ClimateType)
	}

	unit := firstString(md.Unit, rec.Unit, ptr(defaultClimateUnit))
	p.Value = UnknownValue
	if rec.Value != nil {
		p.Value = formatNumber(*rec.Value) + unit
	}

	for _, season := range []struct {
		label    string
		fromMD   *float64
		fromRecd *float64
	}{
		{"DJF", md.DJF, rec.DJF},
		{"JJA", md.JJA, rec.JJA},
		{"MAM", md.MAM, rec.MAM},
		{"SON", md.SON, rec.SON},
	} {
		if v := firstFloat(season.fromMD, season.fromRecd); v != nil {
			p.Breakdown = append(p.Breakdown, Field{season.label, fmt.Sprintf("%.2f", *v)})
		}
	}
	if md.StationID != nil {
		p.Breakdown = append(p.Breakdown, Field{"Station ID", *md.StationID})
	}
	return p
}

func climateLabel(climateType string) string {
	switch climateType {
	case "max_temperature":
		return "Max Temperature"
	case "min_temperature":
		return "Min Temperature"
	case "avg_temperature":
		return "Avg Temperature"
	case "humidity":
		return "Humidity"
	case "evaporation":
		return "Evaporation"
	default:
		return "Climate Value"
	}
}

type windPresenter struct{}

func (windPresenter) Present(rec DisplayRecord) Presentation {
	p := basePresentation(CategoryWind)
	md := validMetadata(rec.Metadata)

	p.ValueLabel = "Wind Speed"
	p.Value = UnknownValue
	if v := firstFloat(rec.Value, rec.WindSpeed); v != nil {
		p.Value = formatNumber(*v) + " m/s"
	}

	if d := firstFloat(md.WindDirection, rec.WindDirection); d != nil {
		p.Breakdown = append(p.Breakdown, Field{"Direction", formatNumber(*d) + "°"})
	}
	if md.GustSpeed != nil {
		p.Breakdown = append(p.Breakdown, Field{"Gust", formatNumber(*md.GustSpeed) + " m/s"})
	}
	return p
}

type vegetationPresenter struct{}

// Present converts the area from m² to km² with one decimal place.
func (vegetationPresenter) Present(rec DisplayRecord) Presentation {
	p := basePresentation(CategoryVegetation)
	md := validMetadata(rec.Metadata)

	p.ValueLabel = "Area"
	p.Value = UnknownValue
	switch {
	case rec.Value != nil:
		p.Value = fmt.Sprintf("%.1f km²", *rec.Value/1_000_000)
	case rec.AreaKm2 != nil:
		p.Value = fmt.Sprintf("%.1f km²", *rec.AreaKm2)
	}

	if z := firstString(md.Zone, rec.ZoneType); z != "" {
		p.Breakdown = append(p.Breakdown, Field{"Zone", z})
	}
	if md.Type != nil {
		p.Breakdown = append(p.Breakdown, Field{"Type", *md.Type})
	}
	return p
}

type genericPresenter struct {
	category Category
}

func (g genericPresenter) Present(rec DisplayRecord) Presentation {
	p := basePresentation(g.category)
	p.ValueLabel = "Value"
	p.Value = UnknownValue
	if rec.Value != nil {
		unit := ""
		if rec.Unit != nil {
			unit = *rec.Unit
		}
		p.Value = formatNumber(*rec.Value) + unit
	}

	switch {
	case rec.Metadata == nil:
	case !rec.Metadata.Valid:
		p.Breakdown = append(p.Breakdown, Field{"Metadata", rec.Metadata.Raw})
	default:
		for i, e := range rec.Metadata.Entries {
			if i == maxGenericEntries {
				break
			}
			p.Breakdown = append(p.Breakdown, Field{e.Key, e.Value})
		}
	}
	return p
}

// validMetadata returns the parsed metadata, or an empty value when the blob
// is missing or failed to parse, so callers can read sub-fields unconditionally.
func validMetadata(md *Metadata) Metadata {
	if md == nil || !md.Valid {
		return Metadata{}
	}
	return *md
}

func firstFloat(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstString(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func ptr[T any](v T) *T { return &v }
