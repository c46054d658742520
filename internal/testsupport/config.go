// Package testsupport provides shared helpers for package tests: temp-dir
// backed configurations, store setup, and media file fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"cinebox/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Scan.Roots = []string{filepath.Join(base, "library")}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithRoots overrides the scan roots on the test config.
func WithRoots(roots ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.Roots = roots
	}
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TMDB.APIKey = key
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
