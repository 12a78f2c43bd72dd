package domain

import "context"

// FallbackLocation is shown when a place name cannot be resolved.
const FallbackLocation = "Unknown Location"

// LocationLookup resolves a coordinate pair to a place name through a remote
// reverse-geocoding service.
type LocationLookup interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}
