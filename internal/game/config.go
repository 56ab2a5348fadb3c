package game

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	brokerservice "github.com/zappabad/marketgame/internal/broker/service"
	marketservice "github.com/zappabad/marketgame/internal/market/service"
	newsservice "github.com/zappabad/marketgame/internal/news/service"
)

// Config holds configuration for the game world.
type Config struct {
	// TickInterval is the wall-clock cadence of the market tick.
	TickInterval time.Duration
	// RoundSeconds is the countdown length of each round.
	RoundSeconds int
	// Rounds is how many rounds a game runs before ending.
	Rounds int
	// MoversN is how many top movers the presenter feed carries.
	MoversN int
	// AdminPassword is the shared admin secret.
	AdminPassword string
	// Seed seeds the simulation RNG; 0 means time-seeded.
	Seed int64

	// Market is the price engine configuration.
	Market marketservice.Config
	// News is the news service configuration.
	News newsservice.Config
	// Broker is the broker service configuration.
	Broker brokerservice.Config
}

// DefaultConfig returns a Config tuned for a ~1.5-2 hour event.
func DefaultConfig() Config {
	return Config{
		TickInterval:  time.Second,
		RoundSeconds:  40,
		Rounds:        30,
		MoversN:       6,
		AdminPassword: "admin123",
		Market:        marketservice.DefaultConfig(),
		News:          newsservice.DefaultConfig(),
		Broker:        brokerservice.DefaultConfig(),
	}
}

// fileConfig is the YAML tuning overlay. Only set fields override the
// defaults.
type fileConfig struct {
	TickSeconds  *float64 `yaml:"tick_seconds"`
	RoundSeconds *int     `yaml:"round_seconds"`
	Rounds       *int     `yaml:"rounds"`
	MoversN      *int     `yaml:"movers_n"`
	Seed         *int64   `yaml:"seed"`

	StartCash *float64 `yaml:"start_cash"`
	FeePct    *float64 `yaml:"trade_fee_pct"`
	MinFee    *float64 `yaml:"min_fee"`

	ShockTicks    *int     `yaml:"shock_ticks"`
	ShockDecay    *float64 `yaml:"shock_decay"`
	BaseSpreadPct *float64 `yaml:"base_spread_pct"`
	BaseSlipPct   *float64 `yaml:"base_slip_pct"`
	MinVol        *float64 `yaml:"min_vol"`
}

// LoadConfig builds the config from defaults, an optional YAML tuning
// file and environment overrides. ADMIN_PASSWORD always wins so the
// secret never needs to live in the tuning file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("game: read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("game: parse config: %w", err)
		}
		if fc.TickSeconds != nil {
			if *fc.TickSeconds <= 0 {
				return Config{}, fmt.Errorf("game: tick_seconds must be positive, got %v", *fc.TickSeconds)
			}
			cfg.TickInterval = time.Duration(*fc.TickSeconds * float64(time.Second))
		}
		if fc.RoundSeconds != nil {
			cfg.RoundSeconds = *fc.RoundSeconds
		}
		if fc.Rounds != nil {
			cfg.Rounds = *fc.Rounds
		}
		if fc.MoversN != nil {
			cfg.MoversN = *fc.MoversN
		}
		if fc.Seed != nil {
			cfg.Seed = *fc.Seed
		}
		if fc.StartCash != nil {
			cfg.Broker.StartCash = *fc.StartCash
		}
		if fc.FeePct != nil {
			cfg.Broker.FeePct = *fc.FeePct
		}
		if fc.MinFee != nil {
			cfg.Broker.MinFee = *fc.MinFee
		}
		if fc.ShockTicks != nil {
			cfg.Market.ShockTicks = *fc.ShockTicks
		}
		if fc.ShockDecay != nil {
			cfg.Market.ShockDecay = *fc.ShockDecay
		}
		if fc.BaseSpreadPct != nil {
			cfg.Market.BaseSpreadPct = *fc.BaseSpreadPct
		}
		if fc.BaseSlipPct != nil {
			cfg.Market.BaseSlipPct = *fc.BaseSlipPct
		}
		if fc.MinVol != nil {
			cfg.Market.MinVol = *fc.MinVol
		}
	}

	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		cfg.AdminPassword = pw
	}

	return cfg, nil
}
