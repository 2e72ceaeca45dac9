package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filmtrend/internal/config"
	"filmtrend/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render reports from the collected catalog",
	}

	reportCmd.AddCommand(newReportRatingsCommand(ctx))
	reportCmd.AddCommand(newReportTopCommand(ctx))
	reportCmd.AddCommand(newReportSentimentCommand(ctx))

	return reportCmd
}

func newReportRatingsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ratings",
		Short: "Show per-movie scores across rating sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				overview, err := st.RatingsOverview(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(overview) == 0 {
					fmt.Fprintln(out, "No movies collected yet")
					return nil
				}

				for _, line := range renderSectionHeader("Ratings Overview", shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
				rows := make([][]string, 0, len(overview))
				for _, row := range overview {
					rows = append(rows, []string{
						row.Title,
						formatScore(row.IMDBScore),
						formatScore(row.CriticsScore),
						formatScore(row.AudienceScore),
						formatScore(row.Metacritic),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Title", "IMDb", "Critics", "Audience", "Metacritic"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newReportTopCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the highest rated analyzed movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				top, err := st.TopRatedReport(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(top) == 0 {
					fmt.Fprintln(out, "No analysis results yet; run `filmtrend analyze` first")
					return nil
				}

				for _, line := range renderSectionHeader("Top Rated Movies", shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
				rows := make([][]string, 0, len(top))
				for i, row := range top {
					rows = append(rows, []string{
						fmt.Sprintf("%d", i+1),
						row.Title,
						row.Genre,
						formatYear(row.ReleaseYear),
						formatScore(row.AvgScore),
						formatScore(row.IMDBRating),
						formatScore(row.RTRating),
						formatScore(row.MetacriticRating),
						formatCount(row.VoteCount),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "Genre", "Year", "Avg", "IMDb", "RT", "Metacritic", "Votes"},
					rows,
					[]columnAlignment{
						alignRight, alignLeft, alignLeft, alignRight, alignRight,
						alignRight, alignRight, alignRight, alignRight,
					},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of movies to show")
	return cmd
}

func newReportSentimentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sentiment",
		Short: "Show sentiment label distributions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				plots, err := st.SentimentBreakdown(cmd.Context())
				if err != nil {
					return err
				}
				reviews, err := st.ReviewLabelCounts(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(plots) == 0 && len(reviews) == 0 {
					fmt.Fprintln(out, "No sentiment data yet")
					return nil
				}

				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Plot Sentiment", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Label", "Movies"},
					sentimentRows(plots),
					[]columnAlignment{alignLeft, alignRight},
				))

				for _, line := range renderSectionHeader("Review Sentiment", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Label", "Reviews"},
					sentimentRows(reviews),
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

// sentimentRows orders label counts Positive, Neutral, Negative with any
// unexpected labels appended after.
func sentimentRows(counts map[string]int64) [][]string {
	var rows [][]string
	seen := map[string]bool{}
	for _, label := range []string{"Positive", "Neutral", "Negative"} {
		if count, ok := counts[label]; ok {
			value := count
			rows = append(rows, []string{label, formatCount(&value)})
			seen[label] = true
		}
	}
	for label, count := range counts {
		if !seen[label] {
			value := count
			rows = append(rows, []string{label, formatCount(&value)})
		}
	}
	return rows
}
