package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// defaultFile is the document shape written when no config file exists
// anywhere on the lookup path.
type defaultFile struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
	UI      struct {
		Filler string `yaml:"filler"`
	} `yaml:"ui"`
}

// WriteDefaultConfig writes the built-in defaults to path, creating parent
// directories as needed. Existing files are left alone.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaults := Defaults()
	var doc defaultFile
	doc.Debug = defaults.Debug
	doc.LogFile = defaults.LogFile
	doc.UI.Filler = defaults.UI.Filler

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	header := []byte("# loupe configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
