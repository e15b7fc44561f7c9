package journal

// Config holds configuration for the operation journal.
type Config struct {
	// Enabled turns on recording of storage operations.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// RecentLimit caps how many entries Recent returns.
	RecentLimit int `mapstructure:"recent_limit" default:"100"`
}
