package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeOMDB()
	c.normalizeScraper()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	if c.TMDB.Pages <= 0 {
		c.TMDB.Pages = defaultTMDBPages
	}
}

func (c *Config) normalizeOMDB() {
	if c.OMDB.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			c.OMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.OMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.OMDB.BaseURL), "/")
	if c.OMDB.BaseURL == "" {
		c.OMDB.BaseURL = defaultOMDBBaseURL
	}
}

func (c *Config) normalizeScraper() {
	if c.Scraper.CrawlbaseToken == "" {
		if value, ok := os.LookupEnv("CRAWLBASE_TOKEN"); ok {
			c.Scraper.CrawlbaseToken = strings.TrimSpace(value)
		}
	}
	c.Scraper.CrawlbaseURL = strings.TrimRight(strings.TrimSpace(c.Scraper.CrawlbaseURL), "/")
	if c.Scraper.CrawlbaseURL == "" {
		c.Scraper.CrawlbaseURL = defaultCrawlbaseURL
	}
	if strings.TrimSpace(c.Scraper.RTListingURL) == "" {
		c.Scraper.RTListingURL = defaultRTListingURL
	}
	if strings.TrimSpace(c.Scraper.NetflixTop10URL) == "" {
		c.Scraper.NetflixTop10URL = defaultNetflixTop10URL
	}
	if c.Scraper.RequestTimeout <= 0 {
		c.Scraper.RequestTimeout = defaultRequestTimeout
	}
	if c.Scraper.MaxRetries <= 0 {
		c.Scraper.MaxRetries = defaultMaxRetries
	}
	if c.Scraper.MinDelayMillis <= 0 {
		c.Scraper.MinDelayMillis = defaultMinDelayMillis
	}
	if c.Scraper.MaxDelayMillis <= 0 {
		c.Scraper.MaxDelayMillis = defaultMaxDelayMillis
	}
}

func (c *Config) normalizePipeline() {
	c.Pipeline.CommitMode = strings.ToLower(strings.TrimSpace(c.Pipeline.CommitMode))
	if c.Pipeline.CommitMode == "" {
		c.Pipeline.CommitMode = defaultCommitMode
	}
	if c.Pipeline.CastLimit <= 0 {
		c.Pipeline.CastLimit = defaultCastLimit
	}
	if c.Sentiment.ReviewsMin <= 0 {
		c.Sentiment.ReviewsMin = defaultReviewsMin
	}
	if c.Sentiment.ReviewsMax <= 0 {
		c.Sentiment.ReviewsMax = defaultReviewsMax
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
