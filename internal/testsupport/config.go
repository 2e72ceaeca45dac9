package testsupport

import (
	"path/filepath"
	"testing"

	"filmtrend/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	cfg.OMDB.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Scraper.MinDelayMillis = 0
	cfg.Scraper.MaxDelayMillis = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithCommitMode sets the pipeline commit mode on the test config.
func WithCommitMode(mode string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.CommitMode = mode
	}
}

// WithLegacyRTColumns toggles the overloaded critics/audience column layout.
func WithLegacyRTColumns(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ratings.LegacyRTColumns = enabled
	}
}
