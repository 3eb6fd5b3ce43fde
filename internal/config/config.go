// Package config provides configuration types, defaults, and persistence for
// loupe.
package config

import "fmt"

// UIConfig holds user interface configuration options.
type UIConfig struct {
	// Filler is the single byte drawn on rows past the end of the buffer.
	Filler string `mapstructure:"filler"`
}

// Config holds all configuration options for loupe.
type Config struct {
	// Debug enables the structured log file.
	Debug bool `mapstructure:"debug"`
	// LogFile is where debug logging goes when enabled.
	LogFile string   `mapstructure:"log_file"`
	UI      UIConfig `mapstructure:"ui"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Debug:   false,
		LogFile: "loupe.log",
		UI: UIConfig{
			Filler: "~",
		},
	}
}

// Validate checks constraints the viewer depends on.
func (c Config) Validate() error {
	if len(c.UI.Filler) != 1 {
		return fmt.Errorf("ui.filler must be exactly one byte, got %q", c.UI.Filler)
	}
	return nil
}

// FillerByte returns the filler as the single byte the renderer consumes.
// Call Validate first.
func (c Config) FillerByte() byte {
	return c.UI.Filler[0]
}
