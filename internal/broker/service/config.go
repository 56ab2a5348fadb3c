package service

// Config holds configuration for the broker service.
type Config struct {
	// StartCash is the virtual cash each player begins with.
	StartCash float64
	// FeePct is the fee charged per trade as a fraction of notional.
	FeePct float64
	// MinFee is the flat fee floor in virtual currency.
	MinFee float64
	// RecentTrades is how many trade-log entries snapshots expose.
	RecentTrades int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		StartCash:    100000,
		FeePct:       0.0005,
		MinFee:       1.0,
		RecentTrades: 8,
	}
}
