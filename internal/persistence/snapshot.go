package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/talgya/idle-syndicate/internal/engine"
	"github.com/talgya/idle-syndicate/internal/progress"
	"github.com/talgya/idle-syndicate/internal/resources"
)

const (
	// CurrentVersion is the snapshot format written by this build.
	CurrentVersion = 2

	// DefaultSlot is the save slot used when none is given.
	DefaultSlot = "idle-syndicate-save"

	// AutoSaveInterval is how often a running game is saved.
	AutoSaveInterval = 30 * time.Second
)

// ErrCorruptSave marks a payload that could not be decoded. Callers treat
// it like a missing save.
var ErrCorruptSave = errors.New("corrupt save")

// Snapshot is the full persisted game state. Version 1 carried only
// resources and progress; version 2 added helpers, managers, and the
// engine state.
type Snapshot struct {
	Version   int                       `json:"version"`
	SavedAt   time.Time                 `json:"savedAt"`
	Resources resources.Vector          `json:"resources"`
	Progress  map[string]progress.State `json:"scams"`
	Helpers   map[string]int            `json:"helpers,omitempty"`
	Managers  []string                  `json:"managers,omitempty"`
	Engine    *engine.State             `json:"engine,omitempty"`
}

// Restored is the state extracted from a snapshot, ready for the stores.
type Restored struct {
	Resources resources.Vector
	Progress  map[string]progress.State
	Helpers   map[string]int
	Managers  []string
	Engine    engine.State
}

// CreateSnapshot captures the given state at now.
func CreateSnapshot(now time.Time, v resources.Vector, prog map[string]progress.State,
	helpers map[string]int, managers []string, eng engine.State) *Snapshot {
	return &Snapshot{
		Version:   CurrentVersion,
		SavedAt:   now,
		Resources: v,
		Progress:  maps.Clone(prog),
		Helpers:   maps.Clone(helpers),
		Managers:  append([]string(nil), managers...),
		Engine:    &eng,
	}
}

// ApplySnapshot extracts the state held by a migrated snapshot. Absent
// fields come back empty, never nil.
func ApplySnapshot(s *Snapshot) Restored {
	r := Restored{
		Resources: s.Resources,
		Progress:  maps.Clone(s.Progress),
		Helpers:   maps.Clone(s.Helpers),
		Managers:  append([]string(nil), s.Managers...),
	}
	if r.Progress == nil {
		r.Progress = map[string]progress.State{}
	}
	if r.Helpers == nil {
		r.Helpers = map[string]int{}
	}
	if s.Engine != nil {
		r.Engine = *s.Engine
	} else {
		r.Engine = engine.NewState(s.SavedAt)
	}
	return r
}

// Migrate upgrades s to CurrentVersion one step at a time. The input is
// not modified.
func Migrate(s *Snapshot) *Snapshot {
	m := *s

	if m.Version < 1 {
		m.Version = 1
	}

	if m.Version < 2 {
		if m.Helpers == nil {
			m.Helpers = map[string]int{}
		}
		if m.Managers == nil {
			m.Managers = []string{}
		}
		if m.Engine == nil {
			st := engine.NewState(m.SavedAt)
			m.Engine = &st
		}
		m.Version = 2
	}

	return &m
}

// Encode serializes s.
func Encode(s *Snapshot) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses and migrates a payload.
func Decode(b []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSave, err)
	}
	return Migrate(&s), nil
}
