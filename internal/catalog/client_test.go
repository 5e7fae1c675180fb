package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/catalog"
	"Storefront/internal/money"
	"Storefront/pkg/kit"
)

func TestClient_Fetch(t *testing.T) {
	ts := newCatalogTS(t, kit.HTTPDeps{})
	c := catalog.NewClient(catalog.ClientConfig{BaseURL: ts.URL + "/"})

	ps, err := c.Fetch(context.Background(), "bakery")
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "Butter Croissant", ps[0].Name)
	assert.Equal(t, money.MustParse("£1.25"), ps[0].Price)

	all, err := c.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestClient_FetchFailures(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>maintenance</html>"))
			},
		},
		{
			name: "bad price",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":1,"name":"Tea","price":"£1.999","available":1}]`))
			},
		},
		{
			name: "invalid product",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":0,"name":"","price":"£1.00","available":1}]`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			t.Cleanup(ts.Close)

			_, err := catalog.NewClient(catalog.ClientConfig{BaseURL: ts.URL}).Fetch(context.Background(), "all")
			require.ErrorIs(t, err, catalog.ErrFetchFailure)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := catalog.NewClient(catalog.ClientConfig{BaseURL: url, Timeout: time.Second}).
		Fetch(context.Background(), "all")
	require.ErrorIs(t, err, catalog.ErrFetchFailure)
}

func TestClient_BreakerOpensAndShortCircuits(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	c := catalog.NewClient(catalog.ClientConfig{
		BaseURL:     ts.URL,
		Failures:    2,
		OpenTimeout: time.Minute,
	})

	for i := 0; i < 2; i++ {
		_, err := c.Fetch(context.Background(), "all")
		require.ErrorIs(t, err, catalog.ErrFetchFailure)
	}
	assert.False(t, c.Ready())

	_, err := c.Fetch(context.Background(), "all")
	require.ErrorIs(t, err, catalog.ErrFetchFailure)
	assert.Equal(t, int32(2), hits.Load(), "open breaker does not call the endpoint")
}

func TestClient_CancelledCallersDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("category") == "slow" {
			select {
			case <-r.Context().Done():
			case <-release:
			}
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(release) })

	c := catalog.NewClient(catalog.ClientConfig{
		BaseURL:     ts.URL,
		Failures:    3,
		OpenTimeout: time.Minute,
	})

	gone, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(gone, "all")
		require.ErrorIs(t, err, catalog.ErrFetchFailure)
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, int32(0), hits.Load(), "a caller already gone never reaches the catalog")

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)
		_, err := c.Fetch(ctx, "slow")
		require.ErrorIs(t, err, context.Canceled)
		cancel()
	}

	assert.True(t, c.Ready())
	ps, err := c.Fetch(context.Background(), "all")
	require.NoError(t, err)
	assert.Empty(t, ps)
}
