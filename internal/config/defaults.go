package config

const (
	defaultDataDir         = "~/.local/share/filmtrend"
	defaultLogDir          = "~/.local/share/filmtrend/logs"
	defaultTMDBBaseURL     = "https://api.themoviedb.org/3"
	defaultTMDBLanguage    = "en-US"
	defaultTMDBYear        = 2025
	defaultTMDBPages       = 1
	defaultOMDBBaseURL     = "https://www.omdbapi.com"
	defaultCrawlbaseURL    = "https://api.crawlbase.com"
	defaultRTListingURL    = "https://www.rottentomatoes.com/browse/movies_in_theaters/sort:top_box_office"
	defaultNetflixTop10URL = "https://www.netflix.com/tudum/top10"
	defaultRequestTimeout  = 12
	defaultMaxRetries      = 3
	defaultMinDelayMillis  = 800
	defaultMaxDelayMillis  = 2000
	defaultCommitMode      = CommitBatch
	defaultCastLimit       = 5
	defaultReviewsMin      = 8
	defaultReviewsMax      = 15
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
			Year:     defaultTMDBYear,
			Pages:    defaultTMDBPages,
		},
		OMDB: OMDB{
			BaseURL: defaultOMDBBaseURL,
		},
		Scraper: Scraper{
			CrawlbaseURL:    defaultCrawlbaseURL,
			RTListingURL:    defaultRTListingURL,
			NetflixTop10URL: defaultNetflixTop10URL,
			RequestTimeout:  defaultRequestTimeout,
			MaxRetries:      defaultMaxRetries,
			MinDelayMillis:  defaultMinDelayMillis,
			MaxDelayMillis:  defaultMaxDelayMillis,
		},
		Ratings: Ratings{
			LegacyRTColumns: true,
		},
		Pipeline: Pipeline{
			CommitMode: defaultCommitMode,
			CastLimit:  defaultCastLimit,
		},
		Sentiment: Sentiment{
			ReviewsMin: defaultReviewsMin,
			ReviewsMax: defaultReviewsMax,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
