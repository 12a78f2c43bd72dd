package domain

// RawRecord is an untyped record as decoded from the dataset API. Its shape
// depends on the category and none of its values are trusted.
type RawRecord map[string]any

// DisplayRecord is the canonical, fully typed projection of a RawRecord.
// Optional fields are nil when the source value was missing or of the wrong
// type; nil means "no data" and is distinct from zero.
type DisplayRecord struct {
	ID    *int64   `json:"id,omitempty"`
	Name  string   `json:"name"`
	Class *string  `json:"recclass,omitempty"`
	Mass  *float64 `json:"mass,omitempty"`
	Value *float64 `json:"value,omitempty"`
	Year  *int     `json:"year,omitempty"`
	Unit  *string  `json:"unit,omitempty"`

	// Lat and Lon are either both set from a resolved CoordinatePair or both nil.
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`

	// Category-specific top-level fields carried by some dataset revisions.
	DJF           *float64 `json:"djf,omitempty"`
	JJA           *float64 `json:"jja,omitempty"`
	MAM           *float64 `json:"mam,omitempty"`
	SON           *float64 `json:"son,omitempty"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	WindDirection *float64 `json:"wind_direction,omitempty"`
	AreaKm2       *float64 `json:"area_km2,omitempty"`
	ZoneType      *string  `json:"zone_type,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`
}

// Coordinates returns the record's resolved pair, if any.
func (r DisplayRecord) Coordinates() (CoordinatePair, bool) {
	if r.Lat == nil || r.Lon == nil {
		return CoordinatePair{}, false
	}
	return CoordinatePair{Lat: *r.Lat, Lon: *r.Lon}, true
}

// MapMarker is the minimal pin handed to the map widget.
type MapMarker struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// DatasetInfo describes one dataset category as listed by GET /datasets/types.
type DatasetInfo struct {
	Type        Category `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Count       int      `json:"count"`
	DateRange   string   `json:"date_range,omitempty"`
	ValueRange  string   `json:"value_range,omitempty"`
}
