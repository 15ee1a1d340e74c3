package main

import (
	"bytes"
	"path/filepath"
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
	"github.com/talgya/idle-syndicate/internal/resources"
)

func testDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idlesim.db")
	t.Setenv("IDLESIM_DB", path)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStatusWithoutSave(t *testing.T) {
	testDB(t)
	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved game.")
}

func TestStatusShowsSavedGame(t *testing.T) {
	path := testDB(t)

	cfg := config.Default()
	g := game.New(cfg, catalog.Default(), clock.NewFake(time.Now()))
	db, err := persistence.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveSnapshot(cfg.Runtime.Slot, g.Snapshot()))
	require.NoError(t, db.Close())

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Money        10")
	assert.Contains(t, out, "Bot Farms")
	assert.NotContains(t, out, "Fake Job Postings")
}

func TestHistoryListsPrestiges(t *testing.T) {
	path := testDB(t)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No prestiges yet.")

	db, err := persistence.Open(path)
	require.NoError(t, err)
	_, err = db.RecordPrestige("run-1", prestige.Result{
		Choice:        prestige.SnitchChoice,
		PreviousTrust: 75,
		NewTrust:      70,
		Bonuses:       []prestige.Bonus{{Type: resources.Money, Amount: 1000}},
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "snitch")
	assert.Contains(t, out, "1K money")
}

func TestResetRequiresConfirmation(t *testing.T) {
	path := testDB(t)

	_, err := execute(t, "reset")
	require.Error(t, err)

	cfg := config.Default()
	db, err := persistence.Open(path)
	require.NoError(t, err)
	g := game.New(cfg, catalog.Default(), clock.NewFake(time.Now()))
	require.NoError(t, db.SaveSnapshot(cfg.Runtime.Slot, g.Snapshot()))
	before, err := db.RunID()
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Save cleared.")

	db, err = persistence.Open(path)
	require.NoError(t, err)
	defer db.Close()
	assert.False(t, db.HasSave(cfg.Runtime.Slot))
	after, err := db.RunID()
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestInvalidConfigFileFails(t *testing.T) {
	testDB(t)
	_, err := execute(t, "status", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestStartIdleStartsUnlockedActions(t *testing.T) {
	g := game.New(config.Default(), catalog.Default(), clock.NewFake(time.Now()))
	startIdle(g)
	assert.Equal(t, 1, g.Status().Running)
	startIdle(g)
	assert.Equal(t, 1, g.Status().Running)
}
