package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
	Year     int    `toml:"year"`
	Pages    int    `toml:"pages"`
}

// OMDB contains configuration for the OMDb API.
type OMDB struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Scraper contains configuration for the scraped listing sources.
type Scraper struct {
	CrawlbaseToken  string `toml:"crawlbase_token"`
	CrawlbaseURL    string `toml:"crawlbase_url"`
	RTListingURL    string `toml:"rt_listing_url"`
	NetflixTop10URL string `toml:"netflix_top10_url"`
	RequestTimeout  int    `toml:"request_timeout"`
	MaxRetries      int    `toml:"max_retries"`
	MinDelayMillis  int    `toml:"min_delay_millis"`
	MaxDelayMillis  int    `toml:"max_delay_millis"`
}

// Ratings contains configuration for rating persistence behavior.
type Ratings struct {
	// LegacyRTColumns preserves the historical layout where scraped
	// Rotten Tomatoes critics/audience scores are written onto the
	// IMDb and Metacritic rating rows. Downstream reports read that
	// layout, so it defaults to true. When false, scraped scores land
	// on a dedicated "Rotten Tomatoes" source row.
	LegacyRTColumns bool `toml:"legacy_rt_columns"`
}

// Pipeline contains configuration for run orchestration.
type Pipeline struct {
	// CommitMode selects transaction granularity: "batch" commits the
	// whole run in one transaction, "per-item" commits each movie.
	CommitMode string `toml:"commit_mode"`
	CastLimit  int    `toml:"cast_limit"`
}

// Sentiment contains configuration for review fabrication and scoring.
type Sentiment struct {
	ReviewsMin int `toml:"reviews_min"`
	ReviewsMax int `toml:"reviews_max"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// CommitMode values accepted by Pipeline.CommitMode.
const (
	CommitBatch   = "batch"
	CommitPerItem = "per-item"
)

// Config encapsulates all configuration values for filmtrend.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - TMDB: trending/discover and detail lookups
//   - OMDB: cross-source ratings and plot text
//   - Scraper: Rotten Tomatoes and Netflix listing fetches
//   - Ratings: rating row layout behavior
//   - Pipeline: transaction granularity and cast limits
//   - Sentiment: synthetic review volume
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	TMDB      TMDB      `toml:"tmdb"`
	OMDB      OMDB      `toml:"omdb"`
	Scraper   Scraper   `toml:"scraper"`
	Ratings   Ratings   `toml:"ratings"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Sentiment Sentiment `toml:"sentiment"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/filmtrend/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// ResolvePath reports where configuration would be loaded from and whether a
// file exists there, without parsing or validating it.
func ResolvePath(path string) (string, bool, error) {
	return resolveConfigPath(path)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("filmtrend.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "filmtrend.db")
}

// LockPath returns the run lock location inside the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "filmtrend.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
