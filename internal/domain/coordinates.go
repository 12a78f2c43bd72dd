package domain

import (
	"math"
	"regexp"
	"strconv"
)

// pointRe matches the legacy textual encoding "POINT(<lon> <lat>)".
// Longitude comes first, following the WKT axis order.
var pointRe = regexp.MustCompile(`(?i)^\s*POINT\s*\(\s*([^\s()]+)\s+([^\s()]+)\s*\)\s*$`)

// CoordinatePair is a WGS-84 latitude/longitude pair.
type CoordinatePair struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both axes are finite and within their legal range.
func (p CoordinatePair) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Key is the canonical cache key for the pair, "<lat>,<lon>" with the
// shortest exact decimal form of each axis.
func (p CoordinatePair) Key() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

// ResolveCoordinates recovers a coordinate pair from a raw record. Numeric
// "lat"/"lon" fields are tried first, then a "location" string in POINT form.
// A record that yields no valid pair reports false; there is no placeholder
// coordinate.
func ResolveCoordinates(raw RawRecord) (CoordinatePair, bool) {
	if p, ok := directCoordinates(raw); ok {
		return p, true
	}
	if s, ok := raw["location"].(string); ok {
		return ParsePoint(s)
	}
	return CoordinatePair{}, false
}

func directCoordinates(raw RawRecord) (CoordinatePair, bool) {
	lat, latOK := asFloat(raw["lat"])
	lon, lonOK := asFloat(raw["lon"])
	if !latOK || !lonOK {
		return CoordinatePair{}, false
	}
	p := CoordinatePair{Lat: lat, Lon: lon}
	return p, p.Valid()
}

// ParsePoint parses "POINT(<lon> <lat>)" into a pair.
func ParsePoint(s string) (CoordinatePair, bool) {
	m := pointRe.FindStringSubmatch(s)
	if len(m) != 3 {
		return CoordinatePair{}, false
	}
	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return CoordinatePair{}, false
	}
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return CoordinatePair{}, false
	}
	p := CoordinatePair{Lat: lat, Lon: lon}
	return p, p.Valid()
}
