// Package domain normalizes dataset search results from the geospatial
// dataset API into a single display model.
//
// # Dataset Categories
//
// Six record kinds share one endpoint, GET /datasets?type=<tag>:
//
//	meteorite       point-impact events (mass in grams, class, year)
//	climate         climate station readings (value + unit, seasonal aggregates)
//	wind            wind observations (speed in m/s, direction, gust)
//	vegetation      vegetation zones (area in m², zone, type)
//	infrastructure  infrastructure records (free-form value + unit)
//	fire            fire-risk projections (free-form value + unit)
//
// The category selects the search form fields and how the metadata blob is
// read. It never changes how coordinates are extracted.
//
// # Record Shape
//
// Records are untrusted key/value objects. Every canonical field is kept only
// when its value is a primitive of the expected type; anything else becomes
// nil. The display name is the only field with a placeholder ("Unknown").
//
// Category-specific sub-fields live in "metadata", a JSON object encoded as a
// string, e.g.
//
//	{"unit":"%","climate_type":"humidity","station_id":"086071","djf":61.2}
//
// A blob that fails to parse is kept verbatim and never aborts rendering.
//
// # Coordinates
//
// Two encodings exist across dataset revisions, tried in order:
//
//	"lat": -37.81, "lon": 144.96       numeric fields
//	"location": "POINT(144.96 -37.81)"  legacy WKT-style text, longitude first
//
// A record with neither yields no coordinate pair. Unresolved records are
// never placed at (0,0); they are simply left off the map.
//
// # Error Taxonomy
//
// Only [APIError] (the server returned {"error": "..."}) and [FormatError]
// (the payload is not a sequence) are surfaced. Coordinate, metadata and
// geocoding failures degrade to absent fields or fallback text.
package domain
