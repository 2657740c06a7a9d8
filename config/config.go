// Package config loads the fieldbattle CLI settings from flags, environment
// and an optional config file.
package config

// LogConfig controls the zap logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	FileDir    string `mapstructure:"file"` // rotated log file; empty logs to stderr only
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Dev        bool   `mapstructure:"dev"`
}

// Config is the full CLI configuration.
type Config struct {
	Log      LogConfig `mapstructure:"log"`
	Scenario string    `mapstructure:"scenario"`
	Watch    bool      `mapstructure:"watch"`
	// Remove lists unit ids taken off the field after the first step, to
	// preview detachment cascades.
	Remove []int `mapstructure:"remove"`
	// LongRange switches the visibility matrix to long-range checks.
	LongRange bool `mapstructure:"long_range"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}
