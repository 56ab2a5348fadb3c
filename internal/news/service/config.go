package service

// Config holds configuration for the news service.
type Config struct {
	// AllowRepeats permits explicitly triggering an item that already
	// ran this game. Random triggering ignores this: it draws from the
	// untriggered pool and reopens the full pool once exhausted.
	AllowRepeats bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		AllowRepeats: false,
	}
}
