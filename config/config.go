// Package config loads the command configuration from an optional YAML file
// and validates it after flags and environment variables were applied.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "localizator.yaml"

// Config holds everything the command needs to fetch and export translations.
type Config struct {
	Platform string `yaml:"platform"`
	// Path is the output root, e.g. the folder holding the *.lproj folders.
	Path string `yaml:"path"`
	// Languages in spreadsheet column order.
	Languages []string `yaml:"languages"`
	// Base language exported without a qualifier on Android.
	Base      string   `yaml:"base"`
	Headers   []string `yaml:"headers"`
	SwiftUtil bool     `yaml:"swiftUtil"`

	Source struct {
		FileID   string `yaml:"fileId"`
		GID      string `yaml:"gid"`
		CSV      string `yaml:"csv"`
		KeepCSV  bool   `yaml:"keepCsv"`
		TempFile string `yaml:"tempFile"`
	} `yaml:"source"`

	Auth struct {
		Credentials string `yaml:"credentials"`
		Token       string `yaml:"token"`
	} `yaml:"auth"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	var cfg Config
	cfg.Platform = "web"
	cfg.Path = "./"
	cfg.Languages = []string{"en"}
	cfg.Source.TempFile = "tmp.csv"
	cfg.Auth.Credentials = "client_secret.json"
	cfg.Auth.Token = "token.json"
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

// Load returns the defaults overlaid with the YAML file at path. A missing
// file is not an error; found reports whether it existed.
func Load(path string) (cfg Config, found bool, err error) {
	cfg = Default()
	if path == "" {
		return cfg, false, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- Only loading a config file
	if errors.Is(err, os.ErrNotExist) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, true, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return cfg, true, nil
}

// SplitLanguages parses a comma separated language list.
func SplitLanguages(s string) []string {
	parts := strings.Split(s, ",")
	languages := make([]string, 0, len(parts))
	for _, part := range parts {
		languages = append(languages, strings.TrimSpace(part))
	}
	return languages
}

// Validate checks the rules that do not depend on the registered writers.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Platform) == "" {
		return errors.New("config: platform is required")
	}
	if strings.TrimSpace(c.Path) == "" {
		return errors.New("config: path is required")
	}
	if len(c.Languages) == 0 {
		return errors.New("config: at least one language is required")
	}

	seen := make(map[string]struct{}, len(c.Languages))
	for _, language := range c.Languages {
		if language == "" {
			return fmt.Errorf("config: empty language in %q", c.Languages)
		}
		if _, ok := seen[language]; ok {
			return fmt.Errorf("config: language %s listed twice", language)
		}
		seen[language] = struct{}{}
	}
	if _, ok := seen[c.Base]; c.Base != "" && !ok {
		return fmt.Errorf("config: base language %s is not in %q", c.Base, c.Languages)
	}

	if c.Source.CSV == "" && strings.TrimSpace(c.Source.TempFile) == "" {
		return errors.New("config: source.tempFile is required when downloading")
	}
	return nil
}
