// Package session owns the currently displayed search result set. A new
// search supersedes the previous one; per-card geocode lookups are applied
// only while the result set they were issued for is still current.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/couchcryptid/geodata-client/internal/observability"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrSuperseded is returned when a newer search started before this one finished.
	ErrSuperseded = errors.New("search superseded by a newer search")
	// ErrNoResults is returned when a location is requested before any search completed.
	ErrNoResults = errors.New("no result set is displayed")
	// ErrIndexOutOfRange is returned for a card index outside the result set.
	ErrIndexOutOfRange = errors.New("card index out of range")
	// ErrNoCoordinates is returned for a card whose record has no coordinate pair.
	ErrNoCoordinates = errors.New("record has no coordinates")
)

// NotFoundError is returned by Describe for a category missing from the catalogue.
type NotFoundError struct {
	Type domain.Category
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Dataset type '%s' not found", e.Type)
}

// DatasetSource fetches raw search results and the dataset catalogue.
type DatasetSource interface {
	FetchDatasets(ctx context.Context, query url.Values) ([]byte, error)
	FetchTypes(ctx context.Context) ([]domain.DatasetInfo, error)
}

// LocationResolver turns a coordinate pair into display text. It never fails.
type LocationResolver interface {
	Resolve(ctx context.Context, p domain.CoordinatePair) string
}

// Exporter publishes a completed result set.
type Exporter interface {
	Export(ctx context.Context, rs *ResultSet) error
}

// Card is one rendered result: the normalized record, its category
// presentation and, once resolved, its place name.
type Card struct {
	Index        int                  `json:"index"`
	Record       domain.DisplayRecord `json:"record"`
	Presentation domain.Presentation  `json:"presentation"`
	Location     string               `json:"location,omitempty"`
}

// ResultSet is the output of one search.
type ResultSet struct {
	Generation uint64             `json:"generation"`
	Category   domain.Category    `json:"category"`
	Heading    string             `json:"heading"`
	Cards      []Card             `json:"cards"`
	Markers    []domain.MapMarker `json:"markers"`
	FetchedAt  time.Time          `json:"fetched_at"`
}

// LocationResult reports a resolved place name and whether it was applied to
// the displayed result set.
type LocationResult struct {
	Generation uint64 `json:"generation"`
	Index      int    `json:"index"`
	Location   string `json:"location"`
	Applied    bool   `json:"applied"`
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used for timestamps and durations.
func WithClock(c clockwork.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithExporter publishes every installed result set.
func WithExporter(e Exporter) Option {
	return func(s *Session) { s.exporter = e }
}

// Session holds one browsing session's state.
type Session struct {
	source   DatasetSource
	resolver LocationResolver
	exporter Exporter
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu      sync.Mutex
	latest  uint64 // generation of the most recently started search
	current *ResultSet
}

// New creates a Session.
func New(source DatasetSource, resolver LocationResolver, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Session {
	s := &Session{
		source:   source,
		resolver: resolver,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search fetches, validates and normalizes one result set and installs it as
// the displayed one. If a newer search started meanwhile, the result is
// discarded and ErrSuperseded returned. A failed search leaves the displayed
// result set unchanged.
func (s *Session) Search(ctx context.Context, category domain.Category, filters map[string]any) (*ResultSet, error) {
	s.mu.Lock()
	s.latest++
	gen := s.latest
	s.mu.Unlock()

	start := s.clock.Now()
	query := domain.BuildQuery(category, filters)

	body, err := s.source.FetchDatasets(ctx, query)
	if err != nil {
		s.metrics.Searches.WithLabelValues(string(category), "transport_error").Inc()
		s.logger.Error("dataset fetch failed", "category", category, "error", err)
		return nil, fmt.Errorf("fetch datasets: %w", err)
	}

	raws, err := domain.DecodeResponse(body)
	if err != nil {
		s.metrics.Searches.WithLabelValues(string(category), outcome(err)).Inc()
		s.logger.Warn("dataset response rejected", "category", category, "error", err)
		return nil, err
	}

	rs := s.build(gen, category, raws)
	s.metrics.SearchDuration.Observe(s.clock.Since(start).Seconds())

	s.mu.Lock()
	if gen != s.latest {
		s.mu.Unlock()
		s.metrics.Searches.WithLabelValues(string(category), "superseded").Inc()
		s.logger.Debug("discarding superseded search", "generation", gen, "category", category)
		return nil, ErrSuperseded
	}
	s.current = rs
	s.mu.Unlock()

	s.metrics.Searches.WithLabelValues(string(category), "success").Inc()
	s.metrics.ResultSetSize.Set(float64(len(rs.Cards)))
	s.logger.Info("search completed",
		"generation", gen,
		"category", category,
		"records", len(rs.Cards),
		"markers", len(rs.Markers),
	)

	s.export(ctx, rs)
	return cloneResultSet(rs), nil
}

func (s *Session) build(gen uint64, category domain.Category, raws []domain.RawRecord) *ResultSet {
	records := domain.NormalizeAll(raws, category)
	presenter := domain.PresenterFor(category)

	cards := make([]Card, len(records))
	for i, rec := range records {
		cards[i] = Card{Index: i, Record: rec, Presentation: presenter.Present(rec)}
		if rec.Metadata != nil && !rec.Metadata.Valid {
			s.logger.Debug("metadata not parseable, shown verbatim", "category", category, "index", i)
		}
	}
	markers := domain.ProjectMarkers(records)

	s.metrics.RecordsNormalized.WithLabelValues(string(category)).Add(float64(len(records)))
	if missing := len(records) - len(markers); missing > 0 {
		s.metrics.RecordsWithoutCoords.WithLabelValues(string(category)).Add(float64(missing))
		s.logger.Debug("records without coordinates left off the map", "category", category, "count", missing)
	}

	return &ResultSet{
		Generation: gen,
		Category:   category,
		Heading:    domain.ResultHeading(category, len(cards)),
		Cards:      cards,
		Markers:    markers,
		FetchedAt:  s.clock.Now().UTC(),
	}
}

func (s *Session) export(ctx context.Context, rs *ResultSet) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.Export(ctx, rs); err != nil {
		s.metrics.ExportErrors.Inc()
		s.logger.Error("export result set failed", "generation", rs.Generation, "error", err)
		return
	}
	s.metrics.ExportedRecords.Add(float64(len(rs.Cards)))
}

// Current returns a copy of the displayed result set, or nil before the first
// successful search.
func (s *Session) Current() *ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return cloneResultSet(s.current)
}

// ResolveLocation geocodes one card lazily. The lookup always runs to
// completion and feeds the shared cache, but its text is applied to the card
// only if the result set it was issued for is still displayed.
func (s *Session) ResolveLocation(ctx context.Context, generation uint64, index int) (LocationResult, error) {
	s.mu.Lock()
	rs := s.current
	if rs == nil {
		s.mu.Unlock()
		return LocationResult{}, ErrNoResults
	}
	if rs.Generation != generation {
		s.mu.Unlock()
		s.metrics.SupersededLookups.Inc()
		return LocationResult{}, ErrSuperseded
	}
	if index < 0 || index >= len(rs.Cards) {
		s.mu.Unlock()
		return LocationResult{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	card := rs.Cards[index]
	s.mu.Unlock()

	if card.Location != "" {
		return LocationResult{Generation: generation, Index: index, Location: card.Location, Applied: true}, nil
	}

	p, ok := card.Record.Coordinates()
	if !ok {
		return LocationResult{}, ErrNoCoordinates
	}

	name := s.resolver.Resolve(ctx, p)
	result := LocationResult{Generation: generation, Index: index, Location: name}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Generation != generation {
		s.metrics.SupersededLookups.Inc()
		s.logger.Debug("location resolved for superseded result set", "generation", generation, "index", index)
		return result, nil
	}
	if name != domain.FallbackLocation {
		s.current.Cards[index].Location = name
	}
	result.Applied = true
	return result, nil
}

// Catalog lists the dataset types known to the API.
func (s *Session) Catalog(ctx context.Context) ([]domain.DatasetInfo, error) {
	types, err := s.source.FetchTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset types: %w", err)
	}
	return types, nil
}

// Describe returns the catalogue entry for one category.
func (s *Session) Describe(ctx context.Context, category domain.Category) (domain.DatasetInfo, error) {
	types, err := s.Catalog(ctx)
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	for _, info := range types {
		if info.Type == category {
			return info, nil
		}
	}
	return domain.DatasetInfo{}, &NotFoundError{Type: category}
}

// CheckReadiness reports whether the dataset API is reachable.
func (s *Session) CheckReadiness(ctx context.Context) error {
	if _, err := s.source.FetchTypes(ctx); err != nil {
		return fmt.Errorf("dataset API not reachable: %w", err)
	}
	return nil
}

func outcome(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return "api_error"
	}
	return "format_error"
}

func cloneResultSet(rs *ResultSet) *ResultSet {
	out := *rs
	out.Cards = append([]Card(nil), rs.Cards...)
	out.Markers = append([]domain.MapMarker(nil), rs.Markers...)
	if out.Cards == nil {
		out.Cards = []Card{}
	}
	if out.Markers == nil {
		out.Markers = []domain.MapMarker{}
	}
	return &out
}
