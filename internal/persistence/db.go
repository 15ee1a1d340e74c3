// Package persistence provides SQLite-based save storage and the
// versioned snapshot format it stores.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/idle-syndicate/internal/engine"
	"github.com/talgya/idle-syndicate/internal/prestige"
)

// DB wraps a SQLite connection for save storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		saved_at INTEGER NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS prestige_history (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		choice TEXT NOT NULL,
		previous_trust REAL NOT NULL,
		new_trust REAL NOT NULL,
		bonuses_json TEXT NOT NULL,
		at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_at ON events(at);
	CREATE INDEX IF NOT EXISTS idx_prestige_at ON prestige_history(at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSnapshot writes s into slot, replacing whatever was there.
func (db *DB) SaveSnapshot(slot string, s *Snapshot) error {
	payload, err := Encode(s)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO saves (slot, version, saved_at, payload) VALUES (?, ?, ?, ?)",
		slot, s.Version, s.SavedAt.UnixMilli(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", slot, err)
	}
	return nil
}

// LoadSnapshot reads and migrates the snapshot in slot. A missing slot
// returns nil, nil. A payload that fails to decode is logged and also
// returns nil, nil, so the caller starts a new game.
func (db *DB) LoadSnapshot(slot string) (*Snapshot, error) {
	var payload string
	err := db.conn.Get(&payload, "SELECT payload FROM saves WHERE slot = ?", slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", slot, err)
	}

	s, err := Decode([]byte(payload))
	if err != nil {
		slog.Warn("discarding unreadable save", "slot", slot, "error", err)
		return nil, nil
	}
	return s, nil
}

// ClearSave deletes slot. Clearing an empty slot is not an error.
func (db *DB) ClearSave(slot string) error {
	if _, err := db.conn.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("clear save %s: %w", slot, err)
	}
	return nil
}

// HasSave reports whether slot holds a save. Errors read as false.
func (db *DB) HasSave(slot string) bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM saves WHERE slot = ?", slot); err != nil {
		return false
	}
	return n > 0
}

// HistoryEntry is one recorded prestige.
type HistoryEntry struct {
	ID            string           `json:"id"`
	RunID         string           `json:"runId"`
	Choice        prestige.Choice  `json:"choice"`
	PreviousTrust float64          `json:"previousTrust"`
	NewTrust      float64          `json:"newTrust"`
	Bonuses       []prestige.Bonus `json:"bonuses"`
	At            time.Time        `json:"at"`
}

type historyRow struct {
	ID            string  `db:"id"`
	RunID         string  `db:"run_id"`
	Choice        string  `db:"choice"`
	PreviousTrust float64 `db:"previous_trust"`
	NewTrust      float64 `db:"new_trust"`
	BonusesJSON   string  `db:"bonuses_json"`
	At            int64   `db:"at"`
}

// RecordPrestige appends r to the history under runID and returns the new
// entry's id.
func (db *DB) RecordPrestige(runID string, r prestige.Result, at time.Time) (string, error) {
	bonuses := r.Bonuses
	if bonuses == nil {
		bonuses = []prestige.Bonus{}
	}
	bonusesJSON, err := json.Marshal(bonuses)
	if err != nil {
		return "", fmt.Errorf("encode bonuses: %w", err)
	}

	id := uuid.NewString()
	_, err = db.conn.Exec(`INSERT INTO prestige_history
		(id, run_id, choice, previous_trust, new_trust, bonuses_json, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, runID, string(r.Choice), r.PreviousTrust, r.NewTrust, string(bonusesJSON), at.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert prestige: %w", err)
	}
	return id, nil
}

// PrestigeHistory returns up to limit entries, newest first.
func (db *DB) PrestigeHistory(limit int) ([]HistoryEntry, error) {
	var rows []historyRow
	err := db.conn.Select(&rows,
		`SELECT id, run_id, choice, previous_trust, new_trust, bonuses_json, at
		 FROM prestige_history ORDER BY at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select prestige history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		var bonuses []prestige.Bonus
		if err := json.Unmarshal([]byte(row.BonusesJSON), &bonuses); err != nil {
			return nil, fmt.Errorf("decode bonuses for %s: %w", row.ID, err)
		}
		entries = append(entries, HistoryEntry{
			ID:            row.ID,
			RunID:         row.RunID,
			Choice:        prestige.Choice(row.Choice),
			PreviousTrust: row.PreviousTrust,
			NewTrust:      row.NewTrust,
			Bonuses:       bonuses,
			At:            time.UnixMilli(row.At).UTC(),
		})
	}
	return entries, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (at, description, category) VALUES (?, ?, ?)",
			e.At.UnixMilli(), e.Description, e.Category,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

type eventRow struct {
	At          int64  `db:"at"`
	Description string `db:"description"`
	Category    string `db:"category"`
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		"SELECT at, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	events := make([]engine.Event, len(rows))
	for i, r := range rows {
		events[i] = engine.Event{At: time.UnixMilli(r.At).UTC(), Description: r.Description, Category: r.Category}
	}
	return events, nil
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. A missing key returns "" and no error.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// RunID returns the current run id, issuing one if none is stored yet.
func (db *DB) RunID() (string, error) {
	id, err := db.GetMeta(metaRunID)
	if err != nil {
		return "", fmt.Errorf("get run id: %w", err)
	}
	if id != "" {
		return id, nil
	}
	return db.NewRun()
}

// NewRun issues and stores a fresh run id. Called after every prestige.
func (db *DB) NewRun() (string, error) {
	id := uuid.NewString()
	if err := db.SaveMeta(metaRunID, id); err != nil {
		return "", fmt.Errorf("save run id: %w", err)
	}
	return id, nil
}

const metaRunID = "run_id"

// SaveGameState saves the snapshot and flushes pending events in one call.
func (db *DB) SaveGameState(slot string, s *Snapshot, pending []engine.Event) error {
	slog.Info("saving game", "slot", slot, "money", s.Resources.Money, "trust", s.Resources.Trust, "events", len(pending))

	if err := db.SaveSnapshot(slot, s); err != nil {
		return err
	}
	if err := db.SaveEvents(pending); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_saved", s.SavedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}
