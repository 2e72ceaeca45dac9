package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filmtrend/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[tmdb]
api_key = "tmdb-key"

[omdb]
api_key = "omdb-key"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved path %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Pipeline.CommitMode != config.CommitBatch {
		t.Errorf("default commit mode = %q, want %q", cfg.Pipeline.CommitMode, config.CommitBatch)
	}
	if !cfg.Ratings.LegacyRTColumns {
		t.Error("legacy_rt_columns should default to true")
	}
	if cfg.TMDB.BaseURL == "" || cfg.OMDB.BaseURL == "" {
		t.Error("base URLs should default when unset")
	}
	if cfg.Sentiment.ReviewsMin != 8 || cfg.Sentiment.ReviewsMax != 15 {
		t.Errorf("review bounds = %d..%d, want 8..15", cfg.Sentiment.ReviewsMin, cfg.Sentiment.ReviewsMax)
	}
}

func TestLoadRequiresAPIKeys(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("OMDB_API_KEY", "")
	path := writeConfig(t, "")

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "tmdb.api_key") {
		t.Fatalf("expected tmdb.api_key error, got %v", err)
	}
}

func TestLoadReadsKeysFromEnv(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-tmdb")
	t.Setenv("OMDB_API_KEY", "env-omdb")
	path := writeConfig(t, "")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TMDB.APIKey != "env-tmdb" || cfg.OMDB.APIKey != "env-omdb" {
		t.Fatalf("env keys not applied: %q / %q", cfg.TMDB.APIKey, cfg.OMDB.APIKey)
	}
}

func TestLoadRejectsUnknownCommitMode(t *testing.T) {
	path := writeConfig(t, `
[tmdb]
api_key = "k"

[omdb]
api_key = "k"

[pipeline]
commit_mode = "two-phase"
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "commit_mode") {
		t.Fatalf("expected commit_mode error, got %v", err)
	}
}

func TestLoadRejectsInvertedDelays(t *testing.T) {
	path := writeConfig(t, `
[tmdb]
api_key = "k"

[omdb]
api_key = "k"

[scraper]
min_delay_millis = 500
max_delay_millis = 100
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "max_delay_millis") {
		t.Fatalf("expected delay validation error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tmdb]") {
		t.Error("sample config missing [tmdb] section")
	}
}
