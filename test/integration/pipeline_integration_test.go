//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefeed/internal/adapters/clients"
	"github.com/jsamuelsen/quotefeed/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
)

// openStack wires the full stack over a sqlite file.
func openStack(t *testing.T, api *quoteAPI, path string) *stack {
	t.Helper()

	cache, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)

	s, err := newStack(api, cache)
	require.NoError(t, err)
	t.Cleanup(s.close)

	return s
}

// TestPipeline_CacheSurvivesRestart verifies that a second process start
// shows the list persisted by the first one before its own fetch lands.
func TestPipeline_CacheSurvivesRestart(t *testing.T) {
	api := newQuoteAPI()
	defer api.Close()

	path := filepath.Join(t.TempDir(), "quotefeed.db")

	first := openStack(t, api, path)
	require.NoError(t, first.syncer.Initialize(context.Background()))
	first.close()

	api.fail()

	second := openStack(t, api, path)
	events, cancel := second.bus.Subscribe(8, app.EventStateChanged, app.EventFetchFailed)
	defer cancel()

	err := second.syncer.Initialize(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsFetchFailed(err))

	state := second.syncer.State()
	assert.Equal(t, domain.PhaseReady, state.Phase())
	require.Equal(t, 3, state.Len())
	assert.Equal(t, "Quote number 1.", state.Quotes()[0].Text)
	assert.Equal(t, "Author 1", state.Quotes()[0].Author)

	cancel()

	var changed, failed int
	for ev := range events {
		switch ev.(type) {
		case app.StateChangedEvent:
			changed++
		case app.FetchFailedEvent:
			failed++
		}
	}

	assert.Equal(t, 2, changed, "cache hit, then the failed fetch")
	assert.Equal(t, 1, failed, "exactly one alert per failed sync")
}

// TestPipeline_EmptyBatchReplacesCache verifies an empty successful fetch
// is persisted as an empty list, not skipped.
func TestPipeline_EmptyBatchReplacesCache(t *testing.T) {
	api := newQuoteAPI()
	defer api.Close()

	s := openStack(t, api, filepath.Join(t.TempDir(), "quotefeed.db"))
	require.NoError(t, s.syncer.Initialize(context.Background()))

	api.serveQuotes(0)
	require.NoError(t, s.syncer.Refresh(context.Background()))

	assert.Equal(t, domain.PhaseEmpty, s.syncer.State().Phase())

	res := s.store.Read(context.Background())
	require.True(t, res.Found())
	assert.Empty(t, res.Quotes)
}

// TestPipeline_CorruptCacheIsIgnored verifies an unreadable slot neither
// blocks the fetch nor survives it.
func TestPipeline_CorruptCacheIsIgnored(t *testing.T) {
	api := newQuoteAPI()
	defer api.Close()

	s := openStack(t, api, filepath.Join(t.TempDir(), "quotefeed.db"))
	require.NoError(t, s.cache.Set(context.Background(), s.store.Key(), []byte("{not json")))

	assert.Equal(t, domain.CacheFailed, s.store.Read(context.Background()).Status)

	require.NoError(t, s.syncer.Initialize(context.Background()))

	res := s.store.Read(context.Background())
	require.True(t, res.Found())
	assert.Len(t, res.Quotes, 3)
}

// TestPipeline_PayloadErrors verifies that payloads the source cannot
// decode fail the sync and leave the cache untouched.
func TestPipeline_PayloadErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "null payload", status: http.StatusOK, body: `null`},
		{name: "object instead of array", status: http.StatusOK, body: `{"q":"x"}`},
		{name: "null entry", status: http.StatusOK, body: `[{"q":"x","a":"y"},null]`},
		{name: "trailing data", status: http.StatusOK, body: `[{"q":"A","a":"X"}] }}garbage{{`},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `[]`},
		{name: "not found", status: http.StatusNotFound, body: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newQuoteAPI()
			defer api.Close()

			s := openStack(t, api, filepath.Join(t.TempDir(), "quotefeed.db"))
			require.NoError(t, s.syncer.Initialize(context.Background()))

			api.respond(tt.status, tt.body)

			err := s.syncer.Refresh(context.Background())

			require.Error(t, err)
			assert.True(t, domain.IsFetchFailed(err))
			assert.Equal(t, 3, s.syncer.State().Len(), "shown list is kept")
			assert.Len(t, s.store.Read(context.Background()).Quotes, 3, "cache is kept")
		})
	}
}

// TestPipeline_IncompleteEntriesAreShown verifies a batch holding an
// entry without text replaces the list like any other batch.
func TestPipeline_IncompleteEntriesAreShown(t *testing.T) {
	api := newQuoteAPI()
	defer api.Close()

	s := openStack(t, api, filepath.Join(t.TempDir(), "quotefeed.db"))
	require.NoError(t, s.syncer.Initialize(context.Background()))

	api.respond(http.StatusOK, `[{"q":"Known.","a":"Someone"},{"a":"Nobody"}]`)

	require.NoError(t, s.syncer.Refresh(context.Background()))

	assert.Equal(t, domain.QuoteList{
		{Text: "Known.", Author: "Someone"},
		{Author: "Nobody"},
	}, s.syncer.State().Quotes())
	assert.Len(t, s.store.Read(context.Background()).Quotes, 2)
}

// TestPipeline_ReadinessTracksCircuit verifies readiness turns unhealthy
// once repeated failures open the source circuit, and recovers with the
// first successful refresh.
func TestPipeline_ReadinessTracksCircuit(t *testing.T) {
	api := newQuoteAPI()
	defer api.Close()

	s := openStack(t, api, filepath.Join(t.TempDir(), "quotefeed.db"))
	api.fail()

	for range 3 {
		_ = s.syncer.Refresh(context.Background())
	}

	require.Equal(t, clients.StateOpen, s.client.CircuitState())

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "zenquotes")

	api.serveQuotes(4)

	callsBefore := api.calls.Load()
	require.NoError(t, s.syncer.Refresh(context.Background()), "an open circuit does not block a manual refresh")
	assert.Equal(t, callsBefore+1, api.calls.Load())
	assert.Equal(t, clients.StateClosed, s.client.CircuitState())
	assert.Equal(t, 4, s.syncer.State().Len())

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
}

// TestPipeline_EveryRefreshReachesUpstream verifies that consecutive failed
// refreshes each send one request and each report FetchFailed, however
// many failures came before.
func TestPipeline_EveryRefreshReachesUpstream(t *testing.T) {
	api := newQuoteAPI()
	defer api.Close()

	s := openStack(t, api, filepath.Join(t.TempDir(), "quotefeed.db"))
	require.NoError(t, s.syncer.Initialize(context.Background()))

	api.fail()
	callsBefore := api.calls.Load()

	const refreshes = 8
	for i := range refreshes {
		err := s.syncer.Refresh(context.Background())
		require.Error(t, err, "refresh %d", i+1)
		assert.True(t, domain.IsFetchFailed(err), "refresh %d", i+1)
		assert.NotErrorIs(t, err, clients.ErrCircuitOpen, "refresh %d", i+1)
	}

	assert.Equal(t, callsBefore+refreshes, api.calls.Load())
	assert.Equal(t, 3, s.syncer.State().Len(), "the shown list survives every failure")
	assert.False(t, s.syncer.State().Refreshing())

	// The refresh endpoint goes through the same client.
	for i := range 3 {
		callsBefore = api.calls.Load()

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/quotes/refresh", http.NoBody))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code, "request %d", i+1)
		assert.Equal(t, callsBefore+1, api.calls.Load(), "request %d", i+1)
	}
}
