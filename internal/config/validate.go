package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateOMDB(); err != nil {
		return err
	}
	if err := c.validateScraper(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/filmtrend/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'filmtrend config init')", defaultPath)
	}
	if c.TMDB.Year < 1888 {
		return fmt.Errorf("tmdb.year %d predates cinema", c.TMDB.Year)
	}
	return nil
}

func (c *Config) validateOMDB() error {
	if c.OMDB.APIKey == "" {
		return errors.New("omdb.api_key is required. Set OMDB_API_KEY env var or edit the config file")
	}
	return nil
}

func (c *Config) validateScraper() error {
	if c.Scraper.MaxDelayMillis < c.Scraper.MinDelayMillis {
		return errors.New("scraper.max_delay_millis must be >= scraper.min_delay_millis")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	switch c.Pipeline.CommitMode {
	case CommitBatch, CommitPerItem:
	default:
		return fmt.Errorf("pipeline.commit_mode must be %q or %q, got %q", CommitBatch, CommitPerItem, c.Pipeline.CommitMode)
	}
	if c.Sentiment.ReviewsMax < c.Sentiment.ReviewsMin {
		return errors.New("sentiment.reviews_max must be >= sentiment.reviews_min")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
