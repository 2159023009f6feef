// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig maps storage settings.
type StorageConfig struct {
	Path *string `toml:"path"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	File   *string `toml:"file"`
}

// Settings are the resolved runtime settings.
type Settings struct {
	DBPath    string
	LogLevel  string
	LogFormat string
	LogFile   string
}

// DefaultSettings returns settings built only from XDG paths.
func DefaultSettings() Settings {
	return Settings{
		DBPath:    DefaultDBPath(),
		LogLevel:  "info",
		LogFormat: "json",
		LogFile:   DefaultLogPath(),
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Apply overlays file values on top of s.
func (c FileConfig) Apply(s Settings) Settings {
	if c.Storage.Path != nil {
		s.DBPath = expandHome(*c.Storage.Path)
	}
	if c.Log.Level != nil {
		s.LogLevel = *c.Log.Level
	}
	if c.Log.Format != nil {
		s.LogFormat = *c.Log.Format
	}
	if c.Log.File != nil {
		s.LogFile = expandHome(*c.Log.File)
	}
	return s
}

// Validate checks resolved settings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.DBPath) == "" {
		return fmt.Errorf("storage path must not be empty")
	}
	switch strings.ToLower(s.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error", "off", "disabled":
	default:
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}
	switch s.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", s.LogFormat)
	}
	return nil
}
