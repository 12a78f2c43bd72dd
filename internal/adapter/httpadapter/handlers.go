package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/couchcryptid/geodata-client/internal/mapview"
	"github.com/couchcryptid/geodata-client/internal/session"
)

type filtersResponse struct {
	Category    domain.Category      `json:"category"`
	Title       string               `json:"title"`
	SearchTitle string               `json:"search_title"`
	Fields      []domain.FilterField `json:"fields"`
}

type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type searchResponse struct {
	*session.ResultSet
	Center *point `json:"center,omitempty"`
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.svc.Catalog(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if types == nil {
		types = []domain.DatasetInfo{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(w, r.PathValue("type"))
	if !ok {
		return
	}
	info, err := s.svc.Describe(r.Context(), category)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(w, r.URL.Query().Get("type"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse{
		Category:    category,
		Title:       category.Title(),
		SearchTitle: category.SearchTitle(),
		Fields:      domain.FilterFields(category),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, ok := parseCategory(w, q.Get("type"))
	if !ok {
		return
	}

	filters := make(map[string]any, len(q))
	for k, vs := range q {
		if k == "type" || len(vs) == 0 {
			continue
		}
		filters[k] = vs[0]
	}

	rs, err := s.svc.Search(r.Context(), category, filters)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := searchResponse{ResultSet: rs}
	if c, ok := mapview.Center(rs.Markers); ok {
		resp.Center = &point{Lat: c.Lat(), Lon: c.Lon()}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMarkers returns the displayed markers as GeoJSON, optionally limited
// to a viewport given as bbox=minLon,minLat,maxLon,maxLat.
func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	rs := s.svc.Current()
	if rs == nil {
		writeJSON(w, http.StatusOK, mapview.FeatureCollection(nil))
		return
	}

	markers := rs.Markers
	if raw := r.URL.Query().Get("bbox"); raw != "" {
		bound, err := mapview.ParseBBox(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		markers = mapview.NewIndex(markers).Within(bound)
	}
	writeJSON(w, http.StatusOK, mapview.FeatureCollection(markers))
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	generation, err := strconv.ParseUint(q.Get("generation"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid generation"})
		return
	}
	index, err := strconv.Atoi(q.Get("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid index"})
		return
	}

	result, err := s.svc.ResolveLocation(r.Context(), generation, index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseCategory(w http.ResponseWriter, tag string) (domain.Category, bool) {
	category, err := domain.ParseCategory(tag)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return "", false
	}
	return category, true
}

// writeError maps session and upstream errors to HTTP statuses. Upstream
// failures are reported as 502 with the upstream message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		apiErr   *domain.APIError
		fmtErr   *domain.FormatError
		notFound *session.NotFoundError
	)
	status := http.StatusBadGateway
	switch {
	case errors.As(err, &apiErr), errors.As(err, &fmtErr):
	case errors.As(err, &notFound),
		errors.Is(err, session.ErrNoResults),
		errors.Is(err, session.ErrIndexOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, session.ErrNoCoordinates):
		status = http.StatusUnprocessableEntity
	default:
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
