package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// UnknownName is the placeholder display name for records without a usable name.
const UnknownName = "Unknown"

// Normalize coerces a raw record into a DisplayRecord. It never fails: every
// field that is not a primitive of the expected type becomes nil, and only the
// display name falls back to a placeholder. The category is accepted so that
// category-specific interpretation can evolve without changing callers;
// coordinate extraction is the same for every category.
func Normalize(raw RawRecord, _ Category) DisplayRecord {
	rec := DisplayRecord{
		ID:    optInt64(raw["id"]),
		Name:  UnknownName,
		Class: optString(raw["recclass"]),
		Mass:  optFloat(raw["mass"]),
		Value: optFloat(raw["value"]),
		Year:  optInt(raw["year"]),
		Unit:  optString(raw["unit"]),

		DJF:           optFloat(raw["djf"]),
		JJA:           optFloat(raw["jja"]),
		MAM:           optFloat(raw["mam"]),
		SON:           optFloat(raw["son"]),
		WindSpeed:     optFloat(raw["wind_speed"]),
		WindDirection: optFloat(raw["wind_direction"]),
		AreaKm2:       optFloat(raw["area_km2"]),
		ZoneType:      optString(raw["zone_type"]),
	}

	if name, ok := raw["name"].(string); ok && strings.TrimSpace(name) != "" {
		rec.Name = name
	}

	if p, ok := ResolveCoordinates(raw); ok {
		rec.Lat, rec.Lon = &p.Lat, &p.Lon
	}

	if s := optString(raw["metadata"]); s != nil {
		rec.Metadata = ParseMetadata(*s)
	}

	return rec
}

// NormalizeAll normalizes a validated result sequence, preserving order.
func NormalizeAll(raws []RawRecord, category Category) []DisplayRecord {
	out := make([]DisplayRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw, category))
	}
	return out
}

// asFloat accepts any Go numeric type or json.Number holding a finite value.
func asFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func optFloat(v any) *float64 {
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// optInt64 accepts integral numbers only; 1880.5 is not a valid year or id.
func optInt64(v any) *int64 {
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return nil
	}
	i := int64(f)
	return &i
}

func optInt(v any) *int {
	i64 := optInt64(v)
	if i64 == nil {
		return nil
	}
	i := int(*i64)
	return &i
}

func optString(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
