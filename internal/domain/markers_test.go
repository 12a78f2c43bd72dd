package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectMarkers_DropsUnresolvedAndKeepsOrder(t *testing.T) {
	raws := []RawRecord{
		{"name": "first", "lat": 10.0, "lon": 20.0},
		{"name": "no coords"},
		{"name": "second", "location": "POINT(12.5 -7.25)"},
		{"name": "bad coords", "lat": 100.0, "lon": 0.0},
		{"name": "third", "lat": 0.0, "lon": 0.0},
	}

	markers := ProjectMarkers(NormalizeAll(raws, CategoryPointImpact))

	assert.Equal(t, []MapMarker{
		{Name: "first", Lat: 10, Lon: 20},
		{Name: "second", Lat: -7.25, Lon: 12.5},
		{Name: "third", Lat: 0, Lon: 0},
	}, markers)
}

func TestProjectMarkers_Empty(t *testing.T) {
	markers := ProjectMarkers(nil)
	assert.NotNil(t, markers)
	assert.Empty(t, markers)
}
