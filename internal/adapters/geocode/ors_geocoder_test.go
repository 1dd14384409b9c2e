package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"rota-inteligente/internal/domain"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]domain.Point
	puts int
}

func (m *memoryStore) GetMany(ctx context.Context, addresses []string) (map[string]domain.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Point{}
	for _, a := range addresses {
		if p, ok := m.data[a]; ok {
			out[a] = p
		}
	}
	return out, nil
}

func (m *memoryStore) PutMany(ctx context.Context, results map[string]domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	for k, v := range results {
		m.data[k] = v
	}
	return nil
}

func newORSServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestORSGeocoderUsesCacheThenAPI(t *testing.T) {
	var calls atomic.Int32
	srv := newORSServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/geocode/search", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("Authorization"))
		require.Equal(t, "BR", r.URL.Query().Get("boundary.country"))
		require.Equal(t, "Rua Augusta 100", r.URL.Query().Get("text"))
		fmt.Fprint(w, `{"features":[{"geometry":{"coordinates":[-46.65,-23.55]}}]}`)
	})

	store := &memoryStore{data: map[string]domain.Point{
		"Praça da Sé": {Lat: -23.5503, Lon: -46.6339},
	}}
	g, err := NewORSGeocoder("secret", store, WithBaseURL(srv.URL), WithCountry("BR"))
	require.NoError(t, err)

	got, err := g.Geocode(context.Background(), []string{"Praça  da Sé", "Rua Augusta   100", "Rua Augusta 100", " "})
	require.NoError(t, err)

	require.Equal(t, map[string]domain.Point{
		"Praça da Sé":     {Lat: -23.5503, Lon: -46.6339},
		"Rua Augusta 100": {Lat: -23.55, Lon: -46.65},
	}, got)
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, 1, store.puts)

	// Second lookup is served from the cache.
	_, err = g.Geocode(context.Background(), []string{"Rua Augusta 100"})
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestORSGeocoderRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := newORSServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"features":[{"geometry":{"coordinates":[1,2]}}]}`)
	})

	g, err := NewORSGeocoder("k", nil, WithBaseURL(srv.URL), WithRetryBackoff(time.Millisecond))
	require.NoError(t, err)

	got, err := g.Geocode(context.Background(), []string{"x"})
	require.NoError(t, err)
	require.Equal(t, domain.Point{Lat: 2, Lon: 1}, got["x"])
	require.Equal(t, int32(3), calls.Load())
}

func TestORSGeocoderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newORSServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	})

	g, err := NewORSGeocoder("k", nil, WithBaseURL(srv.URL), WithRetryBackoff(time.Millisecond))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), []string{"x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
	require.Equal(t, int32(1), calls.Load())
}

func TestORSGeocoderNoResults(t *testing.T) {
	srv := newORSServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[]}`)
	})

	g, err := NewORSGeocoder("k", nil, WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), []string{"nowhere"})
	require.ErrorContains(t, err, "no geocode results")
}

func TestNewORSGeocoderRequiresKey(t *testing.T) {
	_, err := NewORSGeocoder("", nil)
	require.Error(t, err)
}
