package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/idle-syndicate/internal/catalog"
	"github.com/talgya/idle-syndicate/internal/clock"
	"github.com/talgya/idle-syndicate/internal/format"
	"github.com/talgya/idle-syndicate/internal/game"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved game",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			snap, err := db.LoadSnapshot(cfg.Runtime.Slot)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if snap == nil {
				fmt.Fprintln(out, "No saved game.")
				return nil
			}

			clk := clock.Real{}
			g := game.New(cfg, catalog.Default(), clk)
			g.Restore(snap)
			st := g.Status()
			v := st.Resources

			fmt.Fprintf(out, "Saved %s (format v%d)\n\n", format.Away(snap.SavedAt, clk.Now()), snap.Version)
			fmt.Fprintf(out, "  Money        %s\n", format.Number(v.Money))
			fmt.Fprintf(out, "  Bots         %s\n", format.Number(v.Bots))
			fmt.Fprintf(out, "  Reputation   %s\n", format.Number(v.Reputation))
			fmt.Fprintf(out, "  Crypto       %s\n", format.Number(v.Crypto))
			fmt.Fprintf(out, "  Skill points %s\n", format.Number(v.SkillPoints))
			fmt.Fprintf(out, "  Heat         %s\n", format.Percent(st.HeatRatio))
			fmt.Fprintf(out, "  Trust        %s\n", format.Number(v.Trust))
			if st.PrestigePending {
				fmt.Fprintln(out, "  ! prestige pending")
			}
			fmt.Fprintln(out)

			for _, a := range g.Actions() {
				if !a.Unlocked {
					continue
				}
				flags := []string{}
				if a.Managed {
					flags = append(flags, "managed")
				}
				if a.Helpers > 0 {
					flags = append(flags, fmt.Sprintf("%d helpers", a.Helpers))
				}
				fmt.Fprintf(out, "  %-32s lvl %-4d %6s/%s  x%d %s\n",
					a.Name, a.Level, format.Number(a.Reward), format.Duration(time.Duration(a.DurationMS)*time.Millisecond),
					a.TimesCompleted, strings.Join(flags, ", "))
			}
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past prestiges, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			hist, err := db.PrestigeHistory(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(hist) == 0 {
				fmt.Fprintln(out, "No prestiges yet.")
				return nil
			}
			for _, h := range hist {
				kept := make([]string, 0, len(h.Bonuses))
				for _, b := range h.Bonuses {
					kept = append(kept, fmt.Sprintf("%s %s", format.Number(b.Amount), b.Type))
				}
				fmt.Fprintf(out, "%s  %-12s trust %s → %s  %s\n",
					h.At.Format("2006-01-02 15:04"), h.Choice,
					format.Number(h.PreviousTrust), format.Number(h.NewTrust),
					strings.Join(kept, ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries")
	return cmd
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved game and start a new run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes the save; pass --yes to confirm")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.ClearSave(cfg.Runtime.Slot); err != nil {
				return err
			}
			if _, err := db.NewRun(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Save cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}
