package geocode

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/couchcryptid/geodata-client/internal/observability"
)

// Resolver turns coordinate pairs into display-ready place names, consulting
// the session cache before the remote lookup.
type Resolver struct {
	lookup  domain.LocationLookup
	cache   *SessionCache
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewResolver creates a resolver over an explicitly owned cache.
func NewResolver(lookup domain.LocationLookup, cache *SessionCache, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	return &Resolver{
		lookup:  lookup,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve never fails. A failed lookup yields domain.FallbackLocation and is
// not cached, so the same pair is retried on its next resolution.
func (r *Resolver) Resolve(ctx context.Context, p domain.CoordinatePair) string {
	if name, ok := r.cache.Get(p); ok {
		r.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return name
	}
	r.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	name, err := r.lookup.ReverseGeocode(ctx, p.Lat, p.Lon)
	if err != nil {
		r.logger.Debug("reverse geocode failed", "coordinates", p.Key(), "error", err)
		return domain.FallbackLocation
	}

	r.cache.Put(p, name)
	return name
}
