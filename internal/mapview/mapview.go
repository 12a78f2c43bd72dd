// Package mapview adapts map markers to what the map widget consumes: a
// GeoJSON FeatureCollection, viewport queries and the initial centre.
package mapview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrInvalidBBox is returned by ParseBBox for malformed or out-of-range input.
var ErrInvalidBBox = errors.New("invalid bbox")

// FeatureCollection renders markers as GeoJSON points in input order. GeoJSON
// positions are [lon, lat].
func FeatureCollection(markers []domain.MapMarker) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, m := range markers {
		f := geojson.NewFeature(orb.Point{m.Lon, m.Lat})
		f.Properties["name"] = m.Name
		f.Properties["index"] = i
		fc.Append(f)
	}
	return fc
}

// Center is the initial map centre: the first marker. With no markers there
// is no centre, rather than a default at the origin.
func Center(markers []domain.MapMarker) (orb.Point, bool) {
	if len(markers) == 0 {
		return orb.Point{}, false
	}
	return orb.Point{markers[0].Lon, markers[0].Lat}, true
}

// Extent is the smallest bound containing every marker.
func Extent(markers []domain.MapMarker) (orb.Bound, bool) {
	if len(markers) == 0 {
		return orb.Bound{}, false
	}
	mp := make(orb.MultiPoint, len(markers))
	for i, m := range markers {
		mp[i] = orb.Point{m.Lon, m.Lat}
	}
	return mp.Bound(), true
}

// ParseBBox parses "minLon,minLat,maxLon,maxLat". Boxes crossing the
// antimeridian are not supported.
func ParseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("%w: want 4 comma-separated numbers, got %d", ErrInvalidBBox, len(parts))
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("%w: %q is not a number", ErrInvalidBBox, p)
		}
		v[i] = f
	}

	b := orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}
	minP := domain.CoordinatePair{Lat: b.Min.Lat(), Lon: b.Min.Lon()}
	maxP := domain.CoordinatePair{Lat: b.Max.Lat(), Lon: b.Max.Lon()}
	if !minP.Valid() || !maxP.Valid() {
		return orb.Bound{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidBBox)
	}
	if b.Min.Lon() > b.Max.Lon() || b.Min.Lat() > b.Max.Lat() {
		return orb.Bound{}, fmt.Errorf("%w: min exceeds max", ErrInvalidBBox)
	}
	return b, nil
}
