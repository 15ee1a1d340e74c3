// Command idlesim hosts an idle-syndicate game: the tick loop, autosave,
// and the HTTP API, plus a few commands for inspecting the save.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/talgya/idle-syndicate/internal/config"
	"github.com/talgya/idle-syndicate/internal/persistence"
)

const version = "0.3.0"

var configPath string

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "idlesim",
		Short:         "Idle Syndicate progression engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML balance/runtime file (defaults apply when empty)")

	root.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newHistoryCmd(),
		newResetCmd(),
	)
	return root
}

// loadConfig resolves defaults, the --config file, then IDLESIM_* variables.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*persistence.DB, error) {
	if dir := filepath.Dir(cfg.Runtime.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.Runtime.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", cfg.Runtime.DBPath)
	return db, nil
}
