package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, found, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("empty path keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, found, err := Load("")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, "web", cfg.Platform)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "localizator.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
platform: android
path: app/src/main/res
languages: [en, fr, pt-BR]
base: en
headers:
  - Generated, do not modify
source:
  fileId: abc123
  keepCsv: true
log:
  level: debug
`), 0o600))

		cfg, found, err := Load(path)
		require.NoError(t, err)
		assert.True(t, found)

		assert.Equal(t, "android", cfg.Platform)
		assert.Equal(t, "app/src/main/res", cfg.Path)
		assert.Equal(t, []string{"en", "fr", "pt-BR"}, cfg.Languages)
		assert.Equal(t, "en", cfg.Base)
		assert.Equal(t, []string{"Generated, do not modify"}, cfg.Headers)
		assert.Equal(t, "abc123", cfg.Source.FileID)
		assert.True(t, cfg.Source.KeepCSV)
		assert.Equal(t, "debug", cfg.Log.Level)

		assert.Equal(t, "tmp.csv", cfg.Source.TempFile, "unset keys keep their default")
		assert.Equal(t, "client_secret.json", cfg.Auth.Credentials)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("languages: [en\n"), 0o600))

		_, _, err := Load(path)
		assert.Error(t, err)
	})
}

func TestSplitLanguages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"en"}, SplitLanguages("en"))
	assert.Equal(t, []string{"en", "fr", "de"}, SplitLanguages("en, fr,de"))
	assert.Equal(t, []string{"en", ""}, SplitLanguages("en,"))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "no languages", modify: func(c *Config) { c.Languages = nil }, wantErr: true},
		{name: "empty language", modify: func(c *Config) { c.Languages = []string{"en", ""} }, wantErr: true},
		{name: "duplicate language", modify: func(c *Config) { c.Languages = []string{"en", "fr", "en"} }, wantErr: true},
		{name: "base in languages", modify: func(c *Config) {
			c.Languages = []string{"fr", "en"}
			c.Base = "en"
		}},
		{name: "base not in languages", modify: func(c *Config) { c.Base = "de" }, wantErr: true},
		{name: "no platform", modify: func(c *Config) { c.Platform = " " }, wantErr: true},
		{name: "no path", modify: func(c *Config) { c.Path = "" }, wantErr: true},
		{name: "no temp file", modify: func(c *Config) { c.Source.TempFile = "" }, wantErr: true},
		{name: "no temp file with local csv", modify: func(c *Config) {
			c.Source.TempFile = ""
			c.Source.CSV = "translations.csv"
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
