package mapview

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMarkers = []domain.MapMarker{
	{Name: "Aachen", Lat: 50.775, Lon: 6.08333},
	{Name: "Legacy", Lat: -7.25, Lon: 12.5},
	{Name: "Melbourne", Lat: -37.81, Lon: 144.96},
	{Name: "Null Island", Lat: 0, Lon: 0},
}

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection(testMarkers[:2])

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type":"FeatureCollection",
		"features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[6.08333,50.775]},"properties":{"index":0,"name":"Aachen"}},
			{"type":"Feature","geometry":{"type":"Point","coordinates":[12.5,-7.25]},"properties":{"index":1,"name":"Legacy"}}
		]
	}`, string(data))
}

func TestFeatureCollection_Empty(t *testing.T) {
	data, err := json.Marshal(FeatureCollection(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}

func TestCenter(t *testing.T) {
	c, ok := Center(testMarkers)
	require.True(t, ok)
	assert.Equal(t, orb.Point{6.08333, 50.775}, c)

	_, ok = Center(nil)
	assert.False(t, ok, "no markers means no centre, not the origin")
}

func TestExtent(t *testing.T) {
	b, ok := Extent(testMarkers)
	require.True(t, ok)
	assert.Equal(t, orb.Bound{Min: orb.Point{0, -37.81}, Max: orb.Point{144.96, 50.775}}, b)

	_, ok = Extent(nil)
	assert.False(t, ok)
}

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox(" -10, -20.5 ,30,40")
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{-10, -20.5}, Max: orb.Point{30, 40}}, b)

	for _, bad := range []string{
		"",
		"1,2,3",
		"1,2,3,4,5",
		"a,2,3,4",
		"-200,0,10,10",
		"0,-91,10,10",
		"10,0,0,10",
		"0,10,10,0",
	} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseBBox(bad)
			require.ErrorIs(t, err, ErrInvalidBBox)
		})
	}
}

func TestIndex_Within(t *testing.T) {
	idx := NewIndex(testMarkers)
	require.Equal(t, 4, idx.Len())

	tests := []struct {
		name  string
		bound orb.Bound
		want  []string
	}{
		{"whole world keeps input order", orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}, []string{"Aachen", "Legacy", "Melbourne", "Null Island"}},
		{"europe and africa", orb.Bound{Min: orb.Point{-5, -10}, Max: orb.Point{20, 55}}, []string{"Aachen", "Legacy", "Null Island"}},
		{"australia", orb.Bound{Min: orb.Point{110, -45}, Max: orb.Point{155, -10}}, []string{"Melbourne"}},
		{"edge is inclusive", orb.Bound{Min: orb.Point{12.5, -7.25}, Max: orb.Point{13, -7}}, []string{"Legacy"}},
		{"degenerate box on a marker", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 0}}, []string{"Null Island"}},
		{"just outside excludes", orb.Bound{Min: orb.Point{12.50001, -7.25}, Max: orb.Point{13, -7}}, []string{}},
		{"empty ocean", orb.Bound{Min: orb.Point{-60, -60}, Max: orb.Point{-30, -30}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Within(tt.bound)
			names := make([]string, len(got))
			for i, m := range got {
				names[i] = m.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestIndex_Empty(t *testing.T) {
	idx := NewIndex(nil)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Within(orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}))
}
