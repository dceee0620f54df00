package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/netgauge/wifitel/internal/adapters/reporting"
	"github.com/netgauge/wifitel/internal/adapters/storage"
	"github.com/netgauge/wifitel/internal/core/domain"
	"github.com/netgauge/wifitel/internal/core/services/aggregate"
	"github.com/netgauge/wifitel/internal/core/services/atoms"
	"github.com/netgauge/wifitel/internal/core/services/session"
)

type testClock struct {
	mu      sync.Mutex
	wall    time.Time
	elapsed time.Duration
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wall
}

func (c *testClock) ElapsedSinceBoot() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func newTestServer(t *testing.T, tokenHash string) (*Server, *aggregate.Store) {
	t.Helper()

	clock := &testClock{
		wall:    time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		elapsed: 10 * time.Second,
	}
	store := aggregate.NewStore(clock, atoms.NewEmitter(nil), aggregate.DefaultConfig())

	archive, err := storage.NewSQLiteArchive(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = archive.Close() })

	return NewServer(":0", tokenHash, store, archive), store
}

func seedFinalizedSession(store *aggregate.Store) {
	store.StartConnectionEvent("wlan0", session.StartParams{
		NetworkID: 7,
		SSID:      "HomeNet",
		Nominator: domain.NominatorManual,
	})
	store.EndConnectionEvent("wlan0", session.EndParams{FailureCode: domain.FailureNone})
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, "")
	ts := httptest.NewServer(SetupRoutes(srv))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDumpVerboseAndClear(t *testing.T) {
	srv, store := newTestServer(t, "")
	ts := httptest.NewServer(SetupRoutes(srv))
	defer ts.Close()

	seedFinalizedSession(store)

	resp, err := http.Get(ts.URL + "/api/dump")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `ssid="HomeNet"`)
	assert.NotContains(t, string(body), reporting.FrameHeader)

	// The dump cleared the store, so the next report has no sessions.
	resp, err = http.Get(ts.URL + "/api/dump")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "0 finalized")
}

func TestDumpStructuredClean(t *testing.T) {
	srv, store := newTestServer(t, "")
	ts := httptest.NewServer(SetupRoutes(srv))
	defer ts.Close()

	seedFinalizedSession(store)

	resp, err := http.Get(ts.URL + "/api/dump?mode=structured-clean")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Contains(t, string(body), reporting.FrameHeader)
	snap, err := reporting.ExtractSnapshot(string(body))
	require.NoError(t, err)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, "HomeNet", snap.Sessions[0].SSID)
}

func TestSnapshotListAfterDump(t *testing.T) {
	srv, store := newTestServer(t, "")
	ts := httptest.NewServer(SetupRoutes(srv))
	defer ts.Close()

	seedFinalizedSession(store)

	resp, err := http.Get(ts.URL + "/api/dump")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/snapshots")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []domain.SnapshotSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].SessionCount)
}

func TestSnapshotPDFExport(t *testing.T) {
	srv, store := newTestServer(t, "")
	ts := httptest.NewServer(SetupRoutes(srv))
	defer ts.Close()

	seedFinalizedSession(store)

	resp, err := http.Get(ts.URL + "/api/dump")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/snapshots")
	require.NoError(t, err)
	var summaries []domain.SnapshotSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	resp.Body.Close()
	require.Len(t, summaries, 1)

	resp, err = http.Get(ts.URL + "/api/snapshots/" + summaries[0].ID + "/pdf")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestAuthRequired(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit"), bcrypt.MinCost)
	require.NoError(t, err)

	srv, _ := newTestServer(t, string(hash))
	ts := httptest.NewServer(SetupRoutes(srv))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/snapshots")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/snapshots", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Healthz stays public.
	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
