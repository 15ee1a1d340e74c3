// Package api provides the HTTP API for observing and playing a game.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token and are rate limited per client.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/idle-syndicate/internal/format"
	"github.com/talgya/idle-syndicate/internal/game"
	"github.com/talgya/idle-syndicate/internal/persistence"
	"github.com/talgya/idle-syndicate/internal/prestige"
)

// Server serves one game over HTTP.
type Server struct {
	Game     *game.Game
	DB       *persistence.DB // nil disables history and snapshots
	Slot     string
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
	Limiter  *RateLimiter

	srv *http.Server
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	if s.Limiter == nil {
		s.Limiter = NewRateLimiter(120, time.Minute)
	}

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/actions", s.handleActions)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/prestige/history", s.handleHistory)

	// Player commands (POST, require bearer token).
	mux.HandleFunc("/api/v1/start", s.command(s.handleStart))
	mux.HandleFunc("/api/v1/unlock", s.command(s.handleUnlock))
	mux.HandleFunc("/api/v1/upgrade", s.command(s.handleUpgrade))
	mux.HandleFunc("/api/v1/hire", s.command(s.handleHire))
	mux.HandleFunc("/api/v1/manager", s.command(s.handleManager))
	mux.HandleFunc("/api/v1/bot", s.command(s.handleBot))
	mux.HandleFunc("/api/v1/crypto", s.command(s.handleCrypto))
	mux.HandleFunc("/api/v1/prestige", s.command(s.handlePrestige))
	mux.HandleFunc("/api/v1/pause", s.command(s.handlePause))
	mux.HandleFunc("/api/v1/resume", s.command(s.handleResume))
	mux.HandleFunc("/api/v1/snapshot", s.command(s.handleSnapshot))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// CORS_ORIGINS adds a comma-separated list to the localhost dev servers.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.AdminKey
}

// command wraps a handler: POST only, bearer token, rate limit.
func (s *Server) command(next http.HandlerFunc) http.HandlerFunc {
	limited := RateLimitMiddleware(s.Limiter, next)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "commands disabled (no IDLESIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		limited(w, r)
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrUnknownAction),
		errors.Is(err, game.ErrUnknownHelper),
		errors.Is(err, game.ErrUnknownManager):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrLocked),
		errors.Is(err, game.ErrAlreadyRunning),
		errors.Is(err, game.ErrPrestigePending):
		status = http.StatusConflict
	case errors.Is(err, game.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, prestige.ErrUnknownChoice):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		slog.Error("command failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func queryLimit(r *http.Request, def, ceiling int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= ceiling {
			return n
		}
	}
	return def
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Game.Status()
	writeJSON(w, map[string]any{
		"status": st,
		"display": map[string]string{
			"money":        format.Number(st.Resources.Money),
			"bots":         format.Number(st.Resources.Bots),
			"heat":         format.Percent(st.HeatRatio),
			"trust":        format.Number(st.Resources.Trust),
			"crypto_price": format.Money(st.CryptoPrice),
		},
	})
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.Actions())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.Events(queryLimit(r, 50, 500)))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	hist, err := s.DB.PrestigeHistory(queryLimit(r, 20, 200))
	if err != nil {
		slog.Error("prestige history query failed", "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, hist)
}

type actionRequest struct {
	ActionID string `json:"action_id"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.Game.StartAction(req.ActionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"started": req.ActionID})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.Game.Unlock(req.ActionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"unlocked": req.ActionID, "money": s.Game.Resources().Money})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.Game.Upgrade(req.ActionID); err != nil {
		writeError(w, err)
		return
	}
	next, _ := s.Game.UpgradeCost(req.ActionID)
	writeJSON(w, map[string]any{"upgraded": req.ActionID, "next_cost": next})
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HelperID string `json:"helper_id"`
		Count    int    `json:"count"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if err := s.Game.HireHelper(req.HelperID, req.Count); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"hired": req.HelperID, "count": req.Count})
}

func (s *Server) handleManager(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ManagerID string `json:"manager_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.Game.HireManager(req.ManagerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"hired": req.ManagerID})
}

func (s *Server) handleBot(w http.ResponseWriter, r *http.Request) {
	if err := s.Game.BuyBot(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"bots": s.Game.Resources().Bots})
}

func (s *Server) handleCrypto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sell float64 `json:"sell,omitempty"`
		Buy  float64 `json:"buy,omitempty"`
	}
	if !decode(w, r, &req) {
		return
	}

	var err error
	out := map[string]float64{}
	switch {
	case req.Sell > 0 && req.Buy > 0:
		http.Error(w, "sell and buy are exclusive", http.StatusBadRequest)
		return
	case req.Sell > 0:
		out["money"], err = s.Game.SellCrypto(req.Sell)
	default:
		out["crypto"], err = s.Game.BuyCrypto(req.Buy)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, out)
}

func (s *Server) handlePrestige(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice prestige.Choice `json:"choice"`
	}
	if !decode(w, r, &req) {
		return
	}
	result, err := s.Game.Prestige(req.Choice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.Game.Pause()
	writeJSON(w, map[string]bool{"paused": true})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.Game.Resume()
	writeJSON(w, map[string]bool{"paused": false})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	snap := s.Game.Snapshot()
	if err := s.DB.SaveGameState(s.Slot, snap, s.Game.DrainEvents()); err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"saved_at": snap.SavedAt,
		"message":  "snapshot saved",
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
