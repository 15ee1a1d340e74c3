package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/idle-syndicate/internal/catalog"
	"github.com/talgya/idle-syndicate/internal/clock"
	"github.com/talgya/idle-syndicate/internal/config"
	"github.com/talgya/idle-syndicate/internal/game"
	"github.com/talgya/idle-syndicate/internal/persistence"
	"github.com/talgya/idle-syndicate/internal/prestige"
)

const testKey = "test-key"

type harness struct {
	srv *Server
	h   http.Handler
	g   *game.Game
	clk *clock.Fake
}

func newHarness(t *testing.T, withDB bool) harness {
	t.Helper()
	cfg := config.Default()
	clk := clock.NewFake(time.UnixMilli(1_700_000_000_000).UTC())
	g := game.New(cfg, catalog.Default(), clk)

	s := &Server{Game: g, Slot: persistence.DefaultSlot, AdminKey: testKey}
	if withDB {
		db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		s.DB = db
	}
	return harness{srv: s, h: s.Handler(), g: g, clk: clk}
}

func (h harness) do(method, path, body string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, req)
	return rec
}

func TestStatusIsPublic(t *testing.T) {
	h := newHarness(t, false)
	rec := h.do(http.MethodGet, "/api/v1/status", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  game.Status       `json:"status"`
		Display map[string]string `json:"display"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 10.0, body.Status.Resources.Money)
	assert.Equal(t, "10", body.Display["money"])
	assert.Equal(t, "0%", body.Display["heat"])
}

func TestCommandsRequireToken(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(http.MethodPost, "/api/v1/start", `{"action_id":"bot-farms"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/start", "", true)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	h.srv.AdminKey = ""
	rec = h.do(http.MethodPost, "/api/v1/start", `{"action_id":"bot-farms"}`, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStartAndErrors(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(http.MethodPost, "/api/v1/start", `{"action_id":"bot-farms"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/start", `{"action_id":"bot-farms"}`, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/start", `{"action_id":"nope"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/unlock", `{"action_id":"fake-job-postings"}`, true)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/start", `{`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h.clk.Advance(time.Second)
	h.g.Tick(h.clk.Now())

	rec = h.do(http.MethodGet, "/api/v1/actions", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []game.ActionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Equal(t, 1, views[0].TimesCompleted)
}

func TestPrestigeEndpoint(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(http.MethodPost, "/api/v1/prestige", `{"choice":"surrender"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/prestige", `{"choice":"clean-escape"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var r prestige.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, 11.0, r.NewTrust)
}

func TestPauseResumeAndEvents(t *testing.T) {
	h := newHarness(t, false)

	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/v1/pause", "", true).Code)
	assert.True(t, h.g.Paused())
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/v1/resume", "", true).Code)
	assert.False(t, h.g.Paused())

	rec := h.do(http.MethodGet, "/api/v1/events?limit=1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "resumed", events[0]["description"])
}

func TestSnapshotAndHistoryNeedDB(t *testing.T) {
	h := newHarness(t, false)
	assert.Equal(t, http.StatusServiceUnavailable, h.do(http.MethodPost, "/api/v1/snapshot", "", true).Code)
	assert.Equal(t, http.StatusServiceUnavailable, h.do(http.MethodGet, "/api/v1/prestige/history", "", false).Code)
}

func TestSnapshotAndHistory(t *testing.T) {
	h := newHarness(t, true)

	rec := h.do(http.MethodPost, "/api/v1/snapshot", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, h.srv.DB.HasSave(persistence.DefaultSlot))

	_, err := h.srv.DB.RecordPrestige("run-1", prestige.CleanEscape(1), h.clk.Now())
	require.NoError(t, err)

	rec = h.do(http.MethodGet, "/api/v1/prestige/history", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var hist []persistence.HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	require.Len(t, hist, 1)
	assert.Equal(t, "run-1", hist[0].RunID)
}

func TestCommandsAreRateLimited(t *testing.T) {
	h := newHarness(t, false)
	h.srv.Limiter = NewRateLimiter(2, time.Minute)
	h.h = h.srv.Handler()

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/v1/pause", "", true).Code)
	}
	rec := h.do(http.MethodPost, "/api/v1/pause", "", true)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/v1/status", "", false).Code, "reads are not limited")
}
