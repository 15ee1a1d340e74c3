// Package config loads balance tables and runtime settings. Defaults are
// the published values; a YAML file and IDLESIM_* environment variables
// may override them, in that order.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/idle-syndicate/internal/economy"
	"github.com/talgya/idle-syndicate/internal/engine"
	"github.com/talgya/idle-syndicate/internal/persistence"
	"github.com/talgya/idle-syndicate/internal/prestige"
)

// Config is the full settings tree: game balance plus host runtime.
type Config struct {
	Balance  Balance        `yaml:"balance" json:"balance"`
	Prestige prestige.Rules `yaml:"prestige" json:"prestige"`
	Market   Market         `yaml:"market" json:"market"`
	Runtime  Runtime        `yaml:"runtime" json:"runtime"`
}

// Balance holds the economy tables and the starting money seed.
type Balance struct {
	StartingMoney       float64           `yaml:"starting_money" json:"starting_money"`
	Brackets            []economy.Bracket `yaml:"brackets" json:"brackets"`
	SpeedRates          map[int]float64   `yaml:"speed_rates" json:"speed_rates"`
	ProfitRates         map[int]float64   `yaml:"profit_rates" json:"profit_rates"`
	CostRates           map[int]float64   `yaml:"cost_rates" json:"cost_rates"`
	HeatPerTier         map[int]float64   `yaml:"heat_per_tier" json:"heat_per_tier"`
	MinDurationFraction float64           `yaml:"min_duration_fraction" json:"min_duration_fraction"`
	BotCompoundRate     float64           `yaml:"bot_compound_rate" json:"bot_compound_rate"`
	BotBasePrice        float64           `yaml:"bot_base_price" json:"bot_base_price"`
	BaseUpgradeCost     float64           `yaml:"base_upgrade_cost" json:"base_upgrade_cost"`
	HelperCostGrowth    float64           `yaml:"helper_cost_growth" json:"helper_cost_growth"`
}

// Market tunes the crypto price curve.
type Market struct {
	Seed      int64         `yaml:"seed" json:"seed"`
	BasePrice float64       `yaml:"base_price" json:"base_price"`
	Swing     float64       `yaml:"swing" json:"swing"` // fraction of base, 0.4 = ±40%
	Period    time.Duration `yaml:"period" json:"period"`
}

// Runtime configures the host process around the game.
type Runtime struct {
	DBPath         string          `yaml:"db_path" json:"db_path"`
	Slot           string          `yaml:"slot" json:"slot"`
	TickInterval   time.Duration   `yaml:"tick_interval" json:"tick_interval"`
	AutoSave       time.Duration   `yaml:"autosave_interval" json:"autosave_interval"`
	Port           int             `yaml:"port" json:"port"`
	AdminKey       string          `yaml:"admin_key" json:"-"`
	PrestigeChoice prestige.Choice `yaml:"forced_prestige_choice" json:"forced_prestige_choice"`
	EventBuffer    int             `yaml:"event_buffer" json:"event_buffer"`
}

// Default returns the published balance and local runtime settings.
func Default() *Config {
	return &Config{
		Balance: Balance{
			StartingMoney:       10,
			Brackets:            append([]economy.Bracket(nil), economy.LevelBrackets...),
			SpeedRates:          maps.Clone(economy.SpeedBaseRates),
			ProfitRates:         maps.Clone(economy.ProfitBaseRates),
			CostRates:           maps.Clone(economy.CostBaseRates),
			HeatPerTier:         maps.Clone(economy.HeatPerTier),
			MinDurationFraction: economy.MinDurationFraction,
			BotCompoundRate:     economy.BotCompoundRate,
			BotBasePrice:        economy.BotPurchaseBasePrice,
			BaseUpgradeCost:     economy.BaseUpgradeCost,
			HelperCostGrowth:    economy.HelperCostGrowth,
		},
		Prestige: prestige.DefaultRules(),
		Market: Market{
			Seed:      42,
			BasePrice: 250,
			Swing:     0.4,
			Period:    10 * time.Minute,
		},
		Runtime: Runtime{
			DBPath:         "data/idlesim.db",
			Slot:           persistence.DefaultSlot,
			TickInterval:   engine.TickInterval,
			AutoSave:       persistence.AutoSaveInterval,
			Port:           8080,
			PrestigeChoice: prestige.CleanEscapeChoice,
			EventBuffer:    200,
		},
	}
}

// Load overlays the YAML file at path on Default. Keys absent from the file
// keep their default; a bracket list in the file replaces the default one.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays IDLESIM_* environment variables. Malformed numbers are
// ignored and the current value kept.
func (c *Config) ApplyEnv() {
	c.Runtime.DBPath = envOrDefault("IDLESIM_DB", c.Runtime.DBPath)
	c.Runtime.Slot = envOrDefault("IDLESIM_SLOT", c.Runtime.Slot)
	c.Runtime.AdminKey = envOrDefault("IDLESIM_ADMIN_KEY", c.Runtime.AdminKey)
	c.Runtime.Port = envIntOrDefault("IDLESIM_PORT", c.Runtime.Port)
	c.Runtime.TickInterval = envDurationOrDefault("IDLESIM_TICK", c.Runtime.TickInterval)
	c.Runtime.AutoSave = envDurationOrDefault("IDLESIM_AUTOSAVE", c.Runtime.AutoSave)
	c.Runtime.PrestigeChoice = prestige.Choice(envOrDefault("IDLESIM_PRESTIGE_CHOICE", string(c.Runtime.PrestigeChoice)))
	c.Balance.StartingMoney = envFloatOrDefault("IDLESIM_STARTING_MONEY", c.Balance.StartingMoney)
}

// Validate rejects tables the economy cannot run on.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Balance.Brackets) == 0 {
		errs = append(errs, errors.New("balance.brackets is empty"))
	}
	prev := 0
	for i, b := range c.Balance.Brackets {
		if b.MaxLevel <= prev {
			errs = append(errs, fmt.Errorf("balance.brackets[%d]: max_level %d must exceed %d", i, b.MaxLevel, prev))
		}
		prev = b.MaxLevel
	}
	if _, ok := c.Balance.SpeedRates[1]; !ok {
		errs = append(errs, errors.New("balance.speed_rates needs a tier 1 entry"))
	}
	if c.Balance.MinDurationFraction <= 0 || c.Balance.MinDurationFraction > 1 {
		errs = append(errs, fmt.Errorf("balance.min_duration_fraction %v out of (0, 1]", c.Balance.MinDurationFraction))
	}
	if c.Balance.StartingMoney < 0 {
		errs = append(errs, errors.New("balance.starting_money is negative"))
	}
	if c.Prestige.MaxHeat <= 0 {
		errs = append(errs, errors.New("prestige.max_heat must be positive"))
	}
	if !c.Runtime.PrestigeChoice.Valid() {
		errs = append(errs, fmt.Errorf("runtime.forced_prestige_choice %q: %w", c.Runtime.PrestigeChoice, prestige.ErrUnknownChoice))
	}
	if c.Runtime.TickInterval <= 0 {
		errs = append(errs, errors.New("runtime.tick_interval must be positive"))
	}
	if c.Market.Period <= 0 {
		errs = append(errs, errors.New("market.period must be positive"))
	}

	return errors.Join(errs...)
}

// Model builds the economy model from the balance tables.
func (c *Config) Model() economy.Model {
	b := c.Balance
	return economy.Model{
		Brackets:            b.Brackets,
		SpeedRates:          b.SpeedRates,
		ProfitRates:         b.ProfitRates,
		CostRates:           b.CostRates,
		HeatPerTier:         b.HeatPerTier,
		MinDurationFraction: b.MinDurationFraction,
		BotCompoundRate:     b.BotCompoundRate,
		BotBasePrice:        b.BotBasePrice,
		BaseUpgradeCost:     b.BaseUpgradeCost,
		HelperCostGrowth:    b.HelperCostGrowth,
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloatOrDefault(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
