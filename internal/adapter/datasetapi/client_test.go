package datasetapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string, maxRetries int) *Client {
	return NewClient(Options{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Backoff: BackoffConfig{
			MaxRetries:      maxRetries,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
		},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchDatasets_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets", r.URL.Path)
		assert.Equal(t, "meteorite", r.URL.Query().Get("type"))
		assert.Equal(t, "10", r.URL.Query().Get("value_min"))
		_, _ = w.Write([]byte(`[{"name":"Aachen","lat":50.775,"lon":6.08333}]`))
	}))
	defer srv.Close()

	body, err := testClient(srv.URL+"/", 0).FetchDatasets(context.Background(),
		url.Values{"type": {"meteorite"}, "value_min": {"10"}})
	require.NoError(t, err)

	recs, err := domain.DecodeResponse(body)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Aachen", recs[0]["name"])
}

func TestFetchDatasets_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	body, err := testClient(srv.URL, 2).FetchDatasets(context.Background(), url.Values{"type": {"wind"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDatasets_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 1).FetchDatasets(context.Background(), url.Values{"type": {"wind"}})
	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchDatasets_ErrorEnvelopeOnFailureStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to get coordinates for location"}`))
	}))
	defer srv.Close()

	body, err := testClient(srv.URL, 2).FetchDatasets(context.Background(), url.Values{"type": {"fire"}})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "non-transient statuses are not retried")

	_, err = domain.DecodeResponse(body)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to get coordinates for location", apiErr.Message)
}

func TestFetchDatasets_StatusWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 2).FetchDatasets(context.Background(), url.Values{})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "not found", statusErr.Body)
}

func TestFetchDatasets_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL, 2).FetchDatasets(ctx, url.Values{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchDatasets_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 0)
	for range 5 {
		_, err := c.FetchDatasets(context.Background(), url.Values{})
		require.ErrorIs(t, err, errTransient)
	}

	_, err := c.FetchDatasets(context.Background(), url.Values{})
	require.ErrorIs(t, err, errCircuitOpen)
	assert.Equal(t, int32(5), calls.Load(), "open breaker short-circuits the request")
}

func TestFetchTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/types", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"type":"meteorite","name":"Meteorite Landings","description":"NASA meteorite landings","count":45716,"date_range":"860-2013"},
			{"type":"wind","name":"Wind","description":"Wind observations","count":120}
		]`))
	}))
	defer srv.Close()

	types, err := testClient(srv.URL, 0).FetchTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.DatasetInfo{
		{Type: domain.CategoryPointImpact, Name: "Meteorite Landings", Description: "NASA meteorite landings", Count: 45716, DateRange: "860-2013"},
		{Type: domain.CategoryWind, Name: "Wind", Description: "Wind observations", Count: 120},
	}, types)
}

func TestFetchTypes_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 0).FetchTypes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode dataset types")

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	_, err = testClient(down.URL, 0).FetchTypes(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}
