package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"filmtrend/internal/config"
	"filmtrend/internal/pipeline"
	"filmtrend/internal/scrape"
	"filmtrend/internal/store"
)

func newRTUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rt-update",
		Short: "Scrape Rotten Tomatoes scores onto stored movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRun(func(cfg *config.Config, logger *slog.Logger, st *store.Store) error {
				// The render proxy holds the connection while the page
				// loads, so the scraper keeps its own longer timeout;
				// only the retry ceiling comes from config.
				rt, err := scrape.NewRottenTomatoes(
					cfg.Scraper.CrawlbaseToken,
					cfg.Scraper.CrawlbaseURL,
					cfg.Scraper.RTListingURL,
					scrape.WithRTRetryPolicy(requestRetryPolicy(cfg)),
				)
				if err != nil {
					return fmt.Errorf("rotten tomatoes scraper: %w", err)
				}
				updater, err := pipeline.NewRTUpdater(cfg, logger, st, rt)
				if err != nil {
					return err
				}
				stats, err := updater.Run(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scraped %d listings: %d exact, %d partial, %d unmatched\n",
					stats.Scraped, stats.ExactMatch, stats.PartialMatch, stats.NoMatch)
				fmt.Fprintf(out, "Updated %d critics and %d audience scores; filled %d/%d nulls with means\n",
					stats.CriticsUpdated, stats.AudienceUpdated, stats.CriticsFilled, stats.AudienceFilled)
				return nil
			})
		},
	}
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var reviews bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rebuild the analysis tables and impute missing values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRun(func(cfg *config.Config, logger *slog.Logger, st *store.Store) error {
				analyzer, err := pipeline.NewAnalyzer(cfg, logger, st, pipeline.WithReviews(reviews))
				if err != nil {
					return err
				}
				stats, err := analyzer.Run(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Analyzed %d movies, generated %d reviews, imputed %d cells\n",
					stats.Movies, stats.Reviews, stats.ImputedCells)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reviews, "reviews", true, "generate synthetic reviews and sentiment rows")
	return cmd
}
