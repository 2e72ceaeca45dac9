package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"filmtrend/internal/config"
	"filmtrend/internal/impute"
	"filmtrend/internal/ratings"
	"filmtrend/internal/sentiment"
	"filmtrend/internal/services"
	"filmtrend/internal/store"
)

// AnalyzeStats summarizes an analyze run.
type AnalyzeStats struct {
	Movies       int
	Reviews      int
	ImputedCells int
}

// Analyzer rebuilds the derived analysis tables from the stored catalog:
// rating comparisons, the top-rated ranking, and generated review batches,
// then imputes remaining nulls.
type Analyzer struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	generator *sentiment.Generator
	reviews   bool
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithReviewGenerator injects the review generator, letting tests pin the
// randomness source.
func WithReviewGenerator(gen *sentiment.Generator) AnalyzerOption {
	return func(a *Analyzer) {
		if gen != nil {
			a.generator = gen
		}
	}
}

// WithReviews toggles synthetic review generation. Disabled, the analysis
// tables are rebuilt with zero review counts and no sentiment rows.
func WithReviews(enabled bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.reviews = enabled
	}
}

// NewAnalyzer wires an Analyzer from its collaborators.
func NewAnalyzer(cfg *config.Config, logger *slog.Logger, st *store.Store, opts ...AnalyzerOption) (*Analyzer, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("analyzer requires config and store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Analyzer{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		reviews: true,
		generator: sentiment.NewGenerator(
			rand.New(rand.NewSource(time.Now().UnixNano())),
			cfg.Sentiment.ReviewsMin,
			cfg.Sentiment.ReviewsMax,
		),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run rebuilds the analysis tables delete-then-reload in one transaction,
// then runs the imputation pass over the top-rated table.
func (a *Analyzer) Run(ctx context.Context) (*AnalyzeStats, error) {
	runID := uuid.NewString()
	a.logger.Info("analyze run starting", "run_id", runID)

	movies, err := a.store.ListMovies(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "pipeline", "analyze", "list movies", err)
	}

	tx, err := a.store.Begin(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "pipeline", "analyze", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.ClearAnalysisTables(ctx); err != nil {
		return nil, services.Wrap(services.ErrStorage, "pipeline", "analyze", "clear tables", err)
	}

	stats := &AnalyzeStats{}
	for i := range movies {
		if err := a.analyzeMovie(ctx, tx, &movies[i], stats); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "pipeline", "analyze", "commit", err)
	}

	if err := a.imputeTopRated(ctx, stats); err != nil {
		return nil, err
	}

	a.logger.Info("analyze run finished",
		"run_id", runID,
		"movies", stats.Movies,
		"reviews", stats.Reviews,
		"imputed_cells", stats.ImputedCells,
	)
	return stats, nil
}

func (a *Analyzer) analyzeMovie(ctx context.Context, tx *store.Tx, movie *store.Movie, stats *AnalyzeStats) error {
	movieRatings, err := tx.MovieRatings(ctx, movie.ID)
	if err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "analyze", "load ratings", err)
	}
	genres, err := tx.MovieGenres(ctx, movie.ID)
	if err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "analyze", "load genres", err)
	}

	genre := ""
	if len(genres) > 0 {
		genre = genres[0]
	}
	year := releaseYear(movie.ReleaseDate)

	var imdbScore, rtScore, metaScore, tmdbScore *float64
	var voteCount *int64
	for i := range movieRatings {
		rating := &movieRatings[i]
		switch rating.Source {
		case ratings.SourceIMDB:
			imdbScore = rating.Score
			if rating.VoteCount != nil {
				voteCount = rating.VoteCount
			}
		case ratings.SourceRottenTomatoes:
			rtScore = rating.Score
		case ratings.SourceMetacritic:
			metaScore = rating.Score
		case ratings.SourceTMDB:
			tmdbScore = rating.Score
			if voteCount == nil && rating.VoteCount != nil {
				voteCount = rating.VoteCount
			}
		}
	}

	var present []float64
	for _, score := range []*float64{tmdbScore, imdbScore, rtScore, metaScore} {
		if score != nil {
			present = append(present, *score)
		}
	}
	var avgScore *float64
	if avg, ok := ratings.Aggregate(present); ok {
		avgScore = &avg
	}

	var reviews []sentiment.Review
	if a.reviews {
		reviews = a.generator.Generate()
	}

	reviewCount := int64(len(reviews))
	if err := tx.InsertRatingsCompare(ctx, &store.RatingsCompareRow{
		MovieID:       movie.ID,
		Title:         movie.Title,
		Genre:         genre,
		CriticsScore:  rtScore,
		AudienceScore: imdbScore,
		ReviewCount:   &reviewCount,
		ReleaseYear:   year,
	}); err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "analyze", "insert ratings compare", err)
	}

	if err := tx.InsertTopRated(ctx, &store.TopRatedRow{
		MovieID:          movie.ID,
		Title:            movie.Title,
		Genre:            genre,
		IMDBRating:       imdbScore,
		RTRating:         rtScore,
		MetacriticRating: metaScore,
		AvgScore:         avgScore,
		VoteCount:        voteCount,
		ReleaseYear:      year,
	}); err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "analyze", "insert top rated", err)
	}

	for _, review := range reviews {
		if err := tx.InsertSentimentReview(ctx, &store.SentimentReviewRow{
			MovieID:  movie.ID,
			Title:    movie.Title,
			Genre:    genre,
			Label:    string(review.Label),
			Score:    review.Score,
			Language: review.Language,
		}); err != nil {
			return services.Wrap(services.ErrStorage, "pipeline", "analyze", "insert review", err)
		}
	}

	stats.Movies++
	stats.Reviews += len(reviews)
	return nil
}

// imputeTopRated snapshots the top-rated table, fills null cells with column
// statistics, and rewrites the table delete-all-then-reinsert.
func (a *Analyzer) imputeTopRated(ctx context.Context, stats *AnalyzeStats) error {
	rows, err := a.store.ListTopRated(ctx)
	if err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "analyze", "load top rated", err)
	}
	if len(rows) == 0 {
		return nil
	}

	snapshot := topRatedSnapshot(rows)
	before := nullCellCount(snapshot)
	filled := impute.Impute(snapshot)
	stats.ImputedCells = before - nullCellCount(filled)

	applySnapshot(rows, filled)

	tx, err := a.store.Begin(ctx)
	if err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "analyze", "begin impute tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.ReplaceTopRated(ctx, rows); err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "analyze", "replace top rated", err)
	}
	if err := tx.Commit(); err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "analyze", "commit impute", err)
	}
	return nil
}

func topRatedSnapshot(rows []store.TopRatedRow) impute.Snapshot {
	numeric := func(name string, get func(*store.TopRatedRow) *float64) impute.Column {
		column := impute.Column{Name: name, Kind: impute.Numeric, Cells: make([]impute.Cell, len(rows))}
		for i := range rows {
			if v := get(&rows[i]); v != nil {
				column.Cells[i] = impute.NumberCell(*v)
			} else {
				column.Cells[i] = impute.NullCell()
			}
		}
		return column
	}

	votes := impute.Column{Name: "vote_count", Kind: impute.Numeric, Cells: make([]impute.Cell, len(rows))}
	for i := range rows {
		if rows[i].VoteCount != nil {
			votes.Cells[i] = impute.NumberCell(float64(*rows[i].VoteCount))
		} else {
			votes.Cells[i] = impute.NullCell()
		}
	}

	genre := impute.Column{Name: "genre", Kind: impute.Categorical, Cells: make([]impute.Cell, len(rows))}
	for i := range rows {
		if rows[i].Genre != "" {
			genre.Cells[i] = impute.TextCell(rows[i].Genre)
		} else {
			genre.Cells[i] = impute.NullCell()
		}
	}

	return impute.Snapshot{Columns: []impute.Column{
		numeric("imdb_rating", func(r *store.TopRatedRow) *float64 { return r.IMDBRating }),
		numeric("rt_rating", func(r *store.TopRatedRow) *float64 { return r.RTRating }),
		numeric("metacritic_rating", func(r *store.TopRatedRow) *float64 { return r.MetacriticRating }),
		numeric("avg_score", func(r *store.TopRatedRow) *float64 { return r.AvgScore }),
		votes,
		genre,
	}}
}

func applySnapshot(rows []store.TopRatedRow, snapshot impute.Snapshot) {
	assign := func(column impute.Column, set func(*store.TopRatedRow, float64)) {
		for i := range rows {
			if !column.Cells[i].Null {
				set(&rows[i], column.Cells[i].Number)
			}
		}
	}

	for _, column := range snapshot.Columns {
		switch column.Name {
		case "imdb_rating":
			assign(column, func(r *store.TopRatedRow, v float64) { value := v; r.IMDBRating = &value })
		case "rt_rating":
			assign(column, func(r *store.TopRatedRow, v float64) { value := v; r.RTRating = &value })
		case "metacritic_rating":
			assign(column, func(r *store.TopRatedRow, v float64) { value := v; r.MetacriticRating = &value })
		case "avg_score":
			assign(column, func(r *store.TopRatedRow, v float64) { value := v; r.AvgScore = &value })
		case "vote_count":
			for i := range rows {
				if !column.Cells[i].Null {
					value := int64(column.Cells[i].Number)
					rows[i].VoteCount = &value
				}
			}
		case "genre":
			for i := range rows {
				if !column.Cells[i].Null {
					rows[i].Genre = column.Cells[i].Text
				}
			}
		}
	}
}

func nullCellCount(snapshot impute.Snapshot) int {
	count := 0
	for _, column := range snapshot.Columns {
		for _, cell := range column.Cells {
			if cell.Null {
				count++
			}
		}
	}
	return count
}

// releaseYear extracts the year from a release date or bare year string.
func releaseYear(releaseDate string) *int64 {
	if len(releaseDate) < 4 {
		return nil
	}
	year, err := strconv.ParseInt(releaseDate[:4], 10, 64)
	if err != nil {
		return nil
	}
	return &year
}
