package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/idle-syndicate/internal/api"
	"github.com/talgya/idle-syndicate/internal/catalog"
	"github.com/talgya/idle-syndicate/internal/clock"
	"github.com/talgya/idle-syndicate/internal/config"
	"github.com/talgya/idle-syndicate/internal/engine"
	"github.com/talgya/idle-syndicate/internal/format"
	"github.com/talgya/idle-syndicate/internal/game"
	"github.com/talgya/idle-syndicate/internal/persistence"
	"github.com/talgya/idle-syndicate/internal/prestige"
)

func newRunCmd() *cobra.Command {
	var autoplay bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the game loop and HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, autoplay)
		},
	}
	cmd.Flags().BoolVar(&autoplay, "autoplay", false, "start every unlocked idle action on each tick")
	return cmd
}

// runTracker hands out the current run id; prestige rotates it.
type runTracker struct {
	mu sync.Mutex
	db *persistence.DB
	id string
}

func (rt *runTracker) record(r prestige.Result, at time.Time) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, err := rt.db.RecordPrestige(rt.id, r, at); err != nil {
		slog.Error("record prestige failed", "error", err)
	}
	next, err := rt.db.NewRun()
	if err != nil {
		slog.Error("new run id failed", "error", err)
		return
	}
	rt.id = next
	slog.Info("new run", "run_id", next)
}

func run(parent context.Context, cfg *config.Config, autoplay bool) error {
	// ── Database ──────────────────────────────────────────────────────
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// ── Load or Start Game ───────────────────────────────────────────
	clk := clock.Real{}
	g := game.New(cfg, catalog.Default(), clk)

	snap, err := db.LoadSnapshot(cfg.Runtime.Slot)
	if err != nil {
		return err
	}
	if snap != nil {
		g.Restore(snap)
		now := clk.Now()
		op := g.CatchUp(snap.SavedAt, now)
		v := g.Resources()
		slog.Info("save restored",
			"saved", format.Away(snap.SavedAt, now),
			"credited", format.Duration(op.Elapsed),
			"money", format.Money(v.Money),
			"trust", v.Trust,
		)
	} else {
		slog.Info("no save found, starting a new game", "starting_money", cfg.Balance.StartingMoney)
	}

	runID, err := db.RunID()
	if err != nil {
		return err
	}
	tracker := &runTracker{db: db, id: runID}
	g.OnPrestige = tracker.record

	save := func(reason string) {
		if err := db.SaveGameState(cfg.Runtime.Slot, g.Snapshot(), g.DrainEvents()); err != nil {
			slog.Error("save failed", "reason", reason, "error", err)
		}
	}
	if snap == nil {
		save("initial")
	}

	// ── Loop ──────────────────────────────────────────────────────────
	loop := engine.NewLoop(clk)
	loop.Interval = cfg.Runtime.TickInterval
	loop.OnTick = func(now time.Time) {
		g.Tick(now)
		if ran, err := g.ResolvePending(cfg.Runtime.PrestigeChoice); err != nil {
			slog.Error("forced prestige failed", "error", err)
		} else if ran {
			slog.Warn("forced prestige resolved", "choice", cfg.Runtime.PrestigeChoice)
		}
		if autoplay {
			startIdle(g)
		}
	}
	loop.OnEvery = []engine.Periodic{
		{Name: "autosave", Every: cfg.Runtime.AutoSave, Fn: func(time.Time) { save("autosave") }},
		{Name: "report", Every: 5 * time.Minute, Fn: func(time.Time) { report(g) }},
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.Runtime.AdminKey == "" {
		slog.Warn("IDLESIM_ADMIN_KEY not set, command endpoints will be disabled")
	}
	server := &api.Server{
		Game:     g,
		DB:       db,
		Slot:     cfg.Runtime.Slot,
		Port:     cfg.Runtime.Port,
		AdminKey: cfg.Runtime.AdminKey,
	}
	server.Start()

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Runtime.Port)
	fmt.Println("Running... (Ctrl+C to stop)")

	loop.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		slog.Error("HTTP shutdown failed", "error", err)
	}

	// Final save on shutdown.
	slog.Info("final save...")
	save("shutdown")
	fmt.Fprintln(os.Stdout, "Stopped. Game saved.")
	return nil
}

// startIdle starts every unlocked action that is not running.
func startIdle(g *game.Game) {
	for _, a := range g.Actions() {
		if !a.Unlocked || a.Running {
			continue
		}
		if err := g.StartAction(a.ID); err != nil && !errors.Is(err, game.ErrAlreadyRunning) {
			return
		}
	}
}

func report(g *game.Game) {
	st := g.Status()
	slog.Info("status",
		"money", format.Number(st.Resources.Money),
		"bots", format.Number(st.Resources.Bots),
		"heat", format.Percent(st.HeatRatio),
		"trust", format.Number(st.Resources.Trust),
		"running", st.Running,
		"completions", st.Stats.Completions,
	)
}
