package service

import "github.com/zappabad/marketgame/internal/market"

// ShockProfile describes how hard a news shock of one intensity hits:
// an immediate gap move, a sustained per-tick drift, and extra
// volatility during the reaction window. Each pair is a uniform range
// the engine draws from per impacted ticker.
type ShockProfile struct {
	JumpLo  float64 `yaml:"jump_lo" json:"jump_lo"`
	JumpHi  float64 `yaml:"jump_hi" json:"jump_hi"`
	TrendLo float64 `yaml:"trend_lo" json:"trend_lo"`
	TrendHi float64 `yaml:"trend_hi" json:"trend_hi"`
	VolLo   float64 `yaml:"vol_lo" json:"vol_lo"`
	VolHi   float64 `yaml:"vol_hi" json:"vol_hi"`
}

// Config holds the price engine tuning knobs.
type Config struct {
	// PriceFloor is the minimum price a company can reach.
	PriceFloor float64
	// HistorySize is the capacity of each ticker's price history ring.
	HistorySize int
	// BarSize is the capacity of each ticker's OHLC bar ring.
	BarSize int
	// BarPeriodTicks is the number of ticks per OHLC bar.
	BarPeriodTicks int

	// ShockTicks is the reaction window length: how many ticks a news
	// shock lives before its contribution is removed.
	ShockTicks int
	// ShockDecay is the geometric per-tick decay factor applied to a
	// shock's drift and vol-boost contributions.
	ShockDecay float64

	// Impact weights by reach.
	DirectWeight  float64
	SectorWeight  float64
	LinkedWeight  float64
	InverseWeight float64

	// SectorLinks maps a shocked sector to sectors that receive
	// LINKED spillover. Directed: a link from A to B does not imply
	// one from B to A.
	SectorLinks map[market.Sector][]market.Sector
	// SectorInverse maps a sector to sectors pushed the opposite way
	// on UP news (cost/rate pressure style).
	SectorInverse map[market.Sector][]market.Sector

	// Per-sector background dynamics.
	BaseVolBySector   map[market.Sector]float64
	LiquidityBySector map[market.Sector]float64
	DefaultBaseVol    float64
	DefaultLiquidity  float64

	// Core dynamics controls.
	MinVol      float64
	VolSmooth   float64
	TrendDecay  float64
	MeanRevertK float64
	FairSmooth  float64

	// Microstructure.
	BaseSpreadPct float64
	SpreadVolK    float64
	MaxSpreadPct  float64
	BaseSlipPct   float64
	SlipQtyK      float64
	SlipVolK      float64
	MaxSlipPct    float64

	// Profiles maps intensity names (LOW/MEDIUM/HIGH) to shock profiles.
	Profiles map[string]ShockProfile
	// MinMoveTargets is the guaranteed total DIRECT move per intensity
	// over a shock's lifetime. Missing intensities get no enforcement.
	MinMoveTargets map[string]float64
}

// DefaultConfig returns a Config tuned for a beginner-friendly game
// where news impact is clearly visible over background noise.
func DefaultConfig() Config {
	return Config{
		PriceFloor:     0.01,
		HistorySize:    30,
		BarSize:        80,
		BarPeriodTicks: 10,

		ShockTicks: 40,
		ShockDecay: 0.90,

		DirectWeight:  1.00,
		SectorWeight:  0.55,
		LinkedWeight:  0.22,
		InverseWeight: 0.12,

		SectorLinks: map[market.Sector][]market.Sector{
			"Tech":        {"Telecom", "Consumer"},
			"Banking":     {"RealEstate", "Consumer"},
			"Telecom":     {"Tech", "Consumer"},
			"Consumer":    {"Tech", "Banking", "RealEstate"},
			"Healthcare":  {"Consumer"},
			"Energy":      {"Industrials", "Consumer", "Telecom"},
			"Industrials": {"Energy", "Banking", "RealEstate"},
			"RealEstate":  {"Banking", "Industrials", "Consumer"},
		},
		SectorInverse: map[market.Sector][]market.Sector{
			"Energy":  {"Consumer", "Industrials", "Telecom"},
			"Banking": {"RealEstate"},
		},

		BaseVolBySector: map[market.Sector]float64{
			"Tech":        0.00120,
			"Banking":     0.00095,
			"Telecom":     0.00085,
			"Consumer":    0.00090,
			"Healthcare":  0.00100,
			"Energy":      0.00135,
			"Industrials": 0.00105,
			"RealEstate":  0.00110,
		},
		LiquidityBySector: map[market.Sector]float64{
			"Tech":        12000,
			"Banking":     15000,
			"Telecom":     13000,
			"Consumer":    11000,
			"Healthcare":  9000,
			"Energy":      10000,
			"Industrials": 8500,
			"RealEstate":  7000,
		},
		DefaultBaseVol:   0.0012,
		DefaultLiquidity: 8000,

		MinVol:      0.00055,
		VolSmooth:   0.92,
		TrendDecay:  0.93,
		MeanRevertK: 0.055,
		FairSmooth:  0.995,

		BaseSpreadPct: 0.0010,
		SpreadVolK:    4.8,
		MaxSpreadPct:  0.02,
		BaseSlipPct:   0.00018,
		SlipQtyK:      0.020,
		SlipVolK:      0.70,
		MaxSlipPct:    0.05,

		Profiles: map[string]ShockProfile{
			"LOW": {
				JumpLo: 0.006, JumpHi: 0.014,
				TrendLo: 0.00010, TrendHi: 0.00030,
				VolLo: 0.00025, VolHi: 0.00070,
			},
			"MEDIUM": {
				JumpLo: 0.014, JumpHi: 0.032,
				TrendLo: 0.00022, TrendHi: 0.00065,
				VolLo: 0.00060, VolHi: 0.00160,
			},
			"HIGH": {
				JumpLo: 0.030, JumpHi: 0.070,
				TrendLo: 0.00040, TrendHi: 0.00120,
				VolLo: 0.00120, VolHi: 0.00320,
			},
		},
		MinMoveTargets: map[string]float64{
			"LOW":    0.012,
			"MEDIUM": 0.028,
			"HIGH":   0.055,
		},
	}
}
