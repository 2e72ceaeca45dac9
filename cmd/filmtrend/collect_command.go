package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"filmtrend/internal/config"
	"filmtrend/internal/pipeline"
	"filmtrend/internal/scrape"
	"filmtrend/internal/services"
	"filmtrend/internal/services/omdb"
	"filmtrend/internal/services/tmdb"
	"filmtrend/internal/store"
)

func newCollectCommand(ctx *commandContext) *cobra.Command {
	var year int
	var pages int
	var trending bool

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Discover movies and persist details, ratings, and financials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRun(func(cfg *config.Config, logger *slog.Logger, st *store.Store) error {
				if year > 0 {
					cfg.TMDB.Year = year
				}
				if pages > 0 {
					cfg.TMDB.Pages = pages
				}

				collector, err := newCollector(cfg, logger, st, nil)
				if err != nil {
					return err
				}
				var stats *pipeline.CollectStats
				if trending {
					stats, err = collector.CollectTrending(cmd.Context())
				} else {
					stats, err = collector.Collect(cmd.Context())
				}
				if err != nil {
					return err
				}
				printCollectStats(cmd, stats)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Release year to discover (defaults to configured year)")
	cmd.Flags().IntVar(&pages, "pages", 0, "Number of listing pages to walk")
	cmd.Flags().BoolVar(&trending, "trending", false, "Walk this week's trending listing instead of discover-by-year")
	return cmd
}

func newTop10Command(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "top10",
		Short: "Record the Netflix Top 10 with streaming popularity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRun(func(cfg *config.Config, logger *slog.Logger, st *store.Store) error {
				netflix := scrape.NewNetflix(cfg.Scraper.NetflixTop10URL, logger,
					scrape.WithNetflixHTTPClient(requestHTTPClient(cfg)),
					scrape.WithNetflixRetryPolicy(requestRetryPolicy(cfg)))
				collector, err := newCollector(cfg, logger, st, netflix)
				if err != nil {
					return err
				}
				stats, err := collector.CollectTop10(cmd.Context())
				if err != nil {
					return err
				}
				printCollectStats(cmd, stats)
				return nil
			})
		},
	}
}

func newCollector(cfg *config.Config, logger *slog.Logger, st *store.Store, netflix *scrape.Netflix) (*pipeline.Collector, error) {
	httpClient := requestHTTPClient(cfg)
	retry := requestRetryPolicy(cfg)

	tmdbClient, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithHTTPClient(httpClient), tmdb.WithRetryPolicy(retry))
	if err != nil {
		return nil, fmt.Errorf("tmdb client: %w", err)
	}
	omdbClient, err := omdb.New(cfg.OMDB.APIKey, cfg.OMDB.BaseURL,
		omdb.WithHTTPClient(httpClient), omdb.WithRetryPolicy(retry))
	if err != nil {
		return nil, fmt.Errorf("omdb client: %w", err)
	}
	return pipeline.NewCollector(cfg, logger, st, tmdbClient, omdbClient, netflix)
}

// requestHTTPClient applies the configured scraper.request_timeout to every
// outbound API and page fetch.
func requestHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.Scraper.RequestTimeout) * time.Second}
}

// requestRetryPolicy applies the configured scraper.max_retries as the
// attempt ceiling for outbound fetches.
func requestRetryPolicy(cfg *config.Config) services.RetryPolicy {
	policy := services.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Scraper.MaxRetries
	return policy
}

func printCollectStats(cmd *cobra.Command, stats *pipeline.CollectStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d titles: %d stored, %d enriched, %d skipped, %d failed\n",
		stats.Processed, stats.Inserted, stats.Enriched, stats.Skipped, stats.Failed)
}
