package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"Vaultium/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyFetcher struct {
	failures int
	calls    int
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchSnapshot(_ context.Context) (*model.Snapshot, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("boom")
	}
	return DefaultSnapshot(), nil
}

func TestCollector_RetriesThenSucceeds(t *testing.T) {
	f := &flakyFetcher{failures: 2}
	c := NewCollector(f, 3, time.Millisecond)
	snap, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, f.calls)
	assert.Len(t, snap.Rates, 5)
}

func TestCollector_GivesUp(t *testing.T) {
	f := &flakyFetcher{failures: 10}
	c := NewCollector(f, 2, time.Millisecond)
	_, err := c.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, f.calls)
	assert.Contains(t, err.Error(), "boom")
}

func TestCollector_StopsOnCancel(t *testing.T) {
	f := &flakyFetcher{failures: 10}
	c := NewCollector(f, 5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := c.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.calls)
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, time.Second},
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{10, 60 * time.Second},
		{100, 60 * time.Second},
	}
	for _, tt := range tests {
		if got := Backoff(time.Second, tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/state", r.URL.Path)
		w.Write([]byte(`{
			"balances": {"BTC": 8000000, "USD_per_BTC": 56000},
			"rates": {"BTC": {"symbol": "BTC", "rate": 56000, "change24h": 2.4}},
			"watchlists": [],
			"holdings": [{"symbol": "ETH", "amount": 1200}]
		}`))
	}))
	defer srv.Close()

	snap, err := NewHTTPFetcher(srv.URL+"/api/state", "").FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Balances["BTC"].Equal(decimal.NewFromInt(8000000)))
	assert.Equal(t, 56000.0, snap.Rates["BTC"].Rate)
	require.Len(t, snap.Holdings, 1)
	assert.True(t, snap.Holdings[0].Amount.Equal(decimal.NewFromInt(1200)))
	assert.NotNil(t, snap.Watchlists)
	assert.NotNil(t, snap.Txs)
}

func TestHTTPFetcher_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL, "").FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFileFetcher_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, SaveSnapshot(path, DefaultSnapshot()))

	snap, err := NewFileFetcher(path).FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Holdings, 3)
	assert.Equal(t, 3200.0, snap.Rates["ETH"].Rate)

	_, err = NewFileFetcher(filepath.Join(t.TempDir(), "missing.json")).FetchSnapshot(context.Background())
	assert.Error(t, err)
}
