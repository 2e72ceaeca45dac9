package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"filmtrend/internal/config"
	"filmtrend/internal/ratings"
	"filmtrend/internal/scrape"
	"filmtrend/internal/sentiment"
	"filmtrend/internal/services"
	"filmtrend/internal/services/omdb"
	"filmtrend/internal/services/tmdb"
	"filmtrend/internal/store"
)

// storeWriter is the persistence surface shared by *store.Store and
// *store.Tx, so item writes run under either commit mode.
type storeWriter interface {
	InsertMovie(ctx context.Context, movie *store.Movie) (bool, error)
	ResolvePerson(ctx context.Context, name string) (int64, error)
	ResolveGenre(ctx context.Context, name string) (int64, error)
	LinkGenre(ctx context.Context, movieID string, genreID int64) error
	AddCastMember(ctx context.Context, movieID string, personID int64) error
	UpsertRating(ctx context.Context, rating *store.Rating) error
	UpsertFinancials(ctx context.Context, fin *store.Financials) error
	UpsertStreamingPopularity(ctx context.Context, pop *store.StreamingPopularity) error
	UpsertSentiment(ctx context.Context, movieID, label string) error
}

var (
	_ storeWriter = (*store.Store)(nil)
	_ storeWriter = (*store.Tx)(nil)
)

// CollectStats summarizes a collection run.
type CollectStats struct {
	Processed int
	Inserted  int
	Enriched  int
	Skipped   int
	Failed    int
}

// Collector drives the collect and top10 runs: provider listings in,
// normalized rows out.
type Collector struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	tmdb      tmdb.Lister
	omdb      omdb.Lookup
	netflix   *scrape.Netflix
	throttler *Throttler
	rng       *rand.Rand
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithCollectorRand injects the randomness source used for throttling and
// synthetic popularity figures.
func WithCollectorRand(rng *rand.Rand) CollectorOption {
	return func(c *Collector) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// NewCollector wires a Collector from its collaborators.
func NewCollector(
	cfg *config.Config,
	logger *slog.Logger,
	st *store.Store,
	tmdbClient tmdb.Lister,
	omdbClient omdb.Lookup,
	netflix *scrape.Netflix,
	opts ...CollectorOption,
) (*Collector, error) {
	if cfg == nil || st == nil || tmdbClient == nil || omdbClient == nil {
		return nil, errors.New("collector requires config, store, tmdb, and omdb")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Collector{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		tmdb:    tmdbClient,
		omdb:    omdbClient,
		netflix: netflix,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.throttler = NewThrottler(cfg.Scraper, c.rng)
	return c, nil
}

// Collect discovers movies for the configured release year and persists
// their details, credits, ratings, and financials.
func (c *Collector) Collect(ctx context.Context) (*CollectStats, error) {
	return c.collectListing(ctx, "collect", func(page int) (*tmdb.Response, error) {
		return c.tmdb.DiscoverByYear(ctx, c.cfg.TMDB.Year, page)
	})
}

// CollectTrending walks this week's trending listing instead of the yearly
// discover feed, with the same enrichment and write path.
func (c *Collector) CollectTrending(ctx context.Context) (*CollectStats, error) {
	return c.collectListing(ctx, "collect-trending", func(page int) (*tmdb.Response, error) {
		return c.tmdb.TrendingWeek(ctx, page)
	})
}

func (c *Collector) collectListing(ctx context.Context, runKind string, list func(page int) (*tmdb.Response, error)) (*CollectStats, error) {
	runID := uuid.NewString()
	c.logger.Info("collect run starting",
		"run_id", runID,
		"kind", runKind,
		"year", c.cfg.TMDB.Year,
		"pages", c.cfg.TMDB.Pages,
		"commit_mode", c.cfg.Pipeline.CommitMode,
	)

	stats := &CollectStats{}
	batch, err := c.beginBatch(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if batch != nil {
			_ = batch.Rollback()
		}
	}()

	for page := 1; page <= c.cfg.TMDB.Pages; page++ {
		resp, err := list(page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("discover page failed", "page", page, "error", err)
			continue
		}
		for i := range resp.Results {
			if err := c.throttler.Wait(ctx); err != nil {
				return nil, err
			}
			stats.Processed++
			if err := c.collectMovie(ctx, batch, &resp.Results[i], stats); err != nil {
				return nil, err
			}
		}
		if page >= resp.TotalPages {
			break
		}
	}

	if batch != nil {
		if err := batch.Commit(); err != nil {
			return nil, services.Wrap(services.ErrStorage, "pipeline", "collect", "commit batch", err)
		}
		batch = nil
	}

	c.logger.Info("collect run finished",
		"run_id", runID,
		"kind", runKind,
		"processed", stats.Processed,
		"inserted", stats.Inserted,
		"enriched", stats.Enriched,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, nil
}

// CollectTop10 enriches the Netflix Top 10 titles via OMDb and records their
// streaming popularity.
func (c *Collector) CollectTop10(ctx context.Context) (*CollectStats, error) {
	if c.netflix == nil {
		return nil, errors.New("top10 run requires a netflix scraper")
	}
	runID := uuid.NewString()
	c.logger.Info("top10 run starting", "run_id", runID, "commit_mode", c.cfg.Pipeline.CommitMode)

	stats := &CollectStats{}
	batch, err := c.beginBatch(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if batch != nil {
			_ = batch.Rollback()
		}
	}()

	titles := c.netflix.Top10(ctx)
	for rank, title := range titles {
		if err := c.throttler.Wait(ctx); err != nil {
			return nil, err
		}
		stats.Processed++

		record, err := c.omdb.ByTitle(ctx, title)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, services.ErrNotFound) {
				stored, fallbackErr := c.top10FromTMDB(ctx, batch, title, rank+1)
				if fallbackErr != nil {
					if batch != nil || ctx.Err() != nil {
						return nil, fallbackErr
					}
					stats.Failed++
					c.logger.Warn("top10 fallback write failed", "title", title, "error", fallbackErr)
					continue
				}
				if stored {
					stats.Inserted++
					continue
				}
				stats.Skipped++
				c.logger.Warn("title not found in omdb or tmdb", "title", title)
			} else {
				stats.Failed++
				c.logger.Warn("omdb lookup failed", "title", title, "error", err)
			}
			continue
		}

		err = c.withItemTx(ctx, batch, func(w storeWriter) error {
			return c.storeTop10Entry(ctx, w, title, rank+1, record)
		})
		if err != nil {
			if batch != nil || ctx.Err() != nil {
				return nil, err
			}
			stats.Failed++
			c.logger.Warn("top10 write failed", "title", title, "error", err)
			continue
		}
		stats.Inserted++
		stats.Enriched++
	}

	if batch != nil {
		if err := batch.Commit(); err != nil {
			return nil, services.Wrap(services.ErrStorage, "pipeline", "top10", "commit batch", err)
		}
		batch = nil
	}

	c.logger.Info("top10 run finished",
		"run_id", runID,
		"processed", stats.Processed,
		"inserted", stats.Inserted,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, nil
}

// top10FromTMDB falls back to a TMDb title search when OMDb has no entry for
// a listed title, storing the movie and its popularity entry when found.
func (c *Collector) top10FromTMDB(ctx context.Context, batch *store.Tx, title string, rank int) (bool, error) {
	resp, err := c.tmdb.SearchMovie(ctx, title)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		c.logger.Warn("tmdb search failed", "title", title, "error", err)
		return false, nil
	}
	if len(resp.Results) == 0 {
		return false, nil
	}

	details, err := c.tmdb.GetMovieDetails(ctx, resp.Results[0].ID)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		c.logger.Warn("movie details failed", "title", title, "error", err)
		return false, nil
	}
	credits, err := c.tmdb.GetMovieCredits(ctx, resp.Results[0].ID)
	if err != nil {
		credits = nil
	}

	movieID := details.IMDBID
	if movieID == "" {
		movieID = store.SyntheticMovieID(details.Title)
	}
	err = c.withItemTx(ctx, batch, func(w storeWriter) error {
		if err := c.storeMovie(ctx, w, details, credits, nil); err != nil {
			return err
		}
		return w.UpsertStreamingPopularity(ctx, &store.StreamingPopularity{
			MovieID:         movieID,
			Platform:        "Netflix",
			Rank:            rank,
			HoursViewed:     c.syntheticHours(rank),
			MeasurementWeek: time.Now().UTC(),
		})
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Collector) beginBatch(ctx context.Context) (*store.Tx, error) {
	if c.cfg.Pipeline.CommitMode != config.CommitBatch {
		return nil, nil
	}
	tx, err := c.store.Begin(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "pipeline", "collect", "begin batch", err)
	}
	return tx, nil
}

// withItemTx runs fn against the batch transaction when one is open, or a
// fresh per-item transaction otherwise.
func (c *Collector) withItemTx(ctx context.Context, batch *store.Tx, fn func(storeWriter) error) error {
	if batch != nil {
		return fn(batch)
	}
	tx, err := c.store.Begin(ctx)
	if err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "collect", "begin item tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "collect", "commit item", err)
	}
	return nil
}

func (c *Collector) collectMovie(ctx context.Context, batch *store.Tx, result *tmdb.Result, stats *CollectStats) error {
	details, err := c.tmdb.GetMovieDetails(ctx, result.ID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stats.Failed++
		c.logger.Warn("movie details failed", "title", result.Title, "error", err)
		return nil
	}

	credits, err := c.tmdb.GetMovieCredits(ctx, result.ID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Debug("movie credits unavailable", "title", result.Title, "error", err)
		credits = nil
	}

	record := c.enrichFromOMDB(ctx, details)
	if record != nil {
		stats.Enriched++
	}

	err = c.withItemTx(ctx, batch, func(w storeWriter) error {
		return c.storeMovie(ctx, w, details, credits, record)
	})
	if err != nil {
		// Batch mode rolls back the whole run; per-item mode loses only
		// this movie and moves on.
		if batch != nil || ctx.Err() != nil {
			return err
		}
		stats.Failed++
		c.logger.Warn("movie write failed", "title", details.Title, "error", err)
		return nil
	}
	stats.Inserted++
	return nil
}

func (c *Collector) enrichFromOMDB(ctx context.Context, details *tmdb.MovieDetails) *omdb.Record {
	var (
		record *omdb.Record
		err    error
	)
	if details.IMDBID != "" {
		record, err = c.omdb.ByIMDBID(ctx, details.IMDBID)
	} else {
		record, err = c.omdb.ByTitle(ctx, details.Title)
	}
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.logger.Debug("no omdb entry", "title", details.Title)
		} else {
			c.logger.Warn("omdb enrichment failed", "title", details.Title, "error", err)
		}
		return nil
	}
	return record
}

func (c *Collector) storeMovie(ctx context.Context, w storeWriter, details *tmdb.MovieDetails, credits *tmdb.Credits, record *omdb.Record) error {
	movieID := details.IMDBID
	if movieID == "" {
		movieID = store.SyntheticMovieID(details.Title)
	}

	var directorID *int64
	directorName, _ := credits.Director()
	if directorName == "" && record != nil {
		directorName = record.Director
	}
	if directorName != "" {
		id, err := w.ResolvePerson(ctx, directorName)
		if err != nil {
			return fmt.Errorf("resolve director: %w", err)
		}
		directorID = &id
	}

	movie := &store.Movie{
		ID:          movieID,
		Title:       details.Title,
		ReleaseDate: details.ReleaseDate,
		Language:    details.OriginalLanguage,
		DirectorID:  directorID,
	}
	if len(details.ProductionCountries) > 0 {
		movie.Country = details.ProductionCountries[0].ISO31661
	} else if record != nil {
		movie.Country = firstListEntry(record.Country)
	}
	if record != nil {
		movie.Studio = record.Studio
	}
	if _, err := w.InsertMovie(ctx, movie); err != nil {
		return err
	}

	genreNames := make([]string, 0, len(details.Genres))
	for _, genre := range details.Genres {
		genreNames = append(genreNames, genre.Name)
	}
	if len(genreNames) == 0 && record != nil {
		genreNames = record.Genres
	}
	for _, name := range genreNames {
		if name == "" {
			continue
		}
		genreID, err := w.ResolveGenre(ctx, name)
		if err != nil {
			return err
		}
		if err := w.LinkGenre(ctx, movieID, genreID); err != nil {
			return err
		}
	}

	castNames := make([]string, 0, c.cfg.Pipeline.CastLimit)
	if credits != nil {
		for _, member := range credits.Cast {
			if len(castNames) == c.cfg.Pipeline.CastLimit {
				break
			}
			castNames = append(castNames, member.Name)
		}
	}
	if len(castNames) == 0 && record != nil {
		castNames = record.Actors
		if len(castNames) > c.cfg.Pipeline.CastLimit {
			castNames = castNames[:c.cfg.Pipeline.CastLimit]
		}
	}
	for _, name := range castNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		personID, err := w.ResolvePerson(ctx, name)
		if err != nil {
			return err
		}
		if err := w.AddCastMember(ctx, movieID, personID); err != nil {
			return err
		}
	}

	if err := c.storeFinancials(ctx, w, movieID, details, record); err != nil {
		return err
	}
	if err := c.storeRatings(ctx, w, movieID, details, record); err != nil {
		return err
	}
	return c.storeSentiment(ctx, w, movieID, details, record)
}

func (c *Collector) storeFinancials(ctx context.Context, w storeWriter, movieID string, details *tmdb.MovieDetails, record *omdb.Record) error {
	fin := &store.Financials{MovieID: movieID}
	if details.Budget > 0 {
		budget := details.Budget
		fin.Budget = &budget
	}
	if record != nil && record.BoxOffice != nil {
		fin.RevenueDomestic = record.BoxOffice
	}
	if details.Revenue > 0 {
		revenue := details.Revenue
		fin.RevenueInternational = &revenue
	}
	if fin.Budget == nil && fin.RevenueDomestic == nil && fin.RevenueInternational == nil {
		return nil
	}
	return w.UpsertFinancials(ctx, fin)
}

func (c *Collector) storeRatings(ctx context.Context, w storeWriter, movieID string, details *tmdb.MovieDetails, record *omdb.Record) error {
	if details.VoteAverage > 0 {
		score := ratings.NormalizeScore(details.VoteAverage)
		votes := details.VoteCount
		if err := w.UpsertRating(ctx, &store.Rating{
			MovieID: movieID, Source: ratings.SourceTMDB, Score: &score, VoteCount: &votes,
		}); err != nil {
			return err
		}
	}
	if record == nil {
		return nil
	}

	if record.IMDBRating != nil {
		score := ratings.NormalizeScore(*record.IMDBRating)
		if err := w.UpsertRating(ctx, &store.Rating{
			MovieID: movieID, Source: ratings.SourceIMDB, Score: &score, VoteCount: record.IMDBVotes,
		}); err != nil {
			return err
		}
	}
	for source, raw := range map[string]string{
		ratings.SourceRottenTomatoes: record.RottenTomatoes,
		ratings.SourceMetacritic:     record.Metacritic,
	} {
		if raw == "" {
			continue
		}
		score, err := ratings.Normalize(source, raw)
		if err != nil {
			c.logger.Debug("unparsable rating", "movie", movieID, "source", source, "raw", raw)
			continue
		}
		if err := w.UpsertRating(ctx, &store.Rating{
			MovieID: movieID, Source: source, Score: &score,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) storeSentiment(ctx context.Context, w storeWriter, movieID string, details *tmdb.MovieDetails, record *omdb.Record) error {
	plot := ""
	if record != nil {
		plot = record.Plot
	}
	if plot == "" && details != nil {
		plot = details.Overview
	}
	return w.UpsertSentiment(ctx, movieID, string(sentiment.Analyze(plot)))
}

func (c *Collector) storeTop10Entry(ctx context.Context, w storeWriter, listTitle string, rank int, record *omdb.Record) error {
	title := record.Title
	if title == "" {
		title = listTitle
	}
	movieID := record.IMDBID
	if movieID == "" {
		movieID = store.SyntheticMovieID(title)
	}

	var directorID *int64
	if record.Director != "" {
		id, err := w.ResolvePerson(ctx, record.Director)
		if err != nil {
			return err
		}
		directorID = &id
	}

	if _, err := w.InsertMovie(ctx, &store.Movie{
		ID:          movieID,
		Title:       title,
		ReleaseDate: record.Year,
		Country:     firstListEntry(record.Country),
		Language:    firstListEntry(record.Language),
		Studio:      record.Studio,
		DirectorID:  directorID,
	}); err != nil {
		return err
	}

	for _, name := range record.Genres {
		genreID, err := w.ResolveGenre(ctx, name)
		if err != nil {
			return err
		}
		if err := w.LinkGenre(ctx, movieID, genreID); err != nil {
			return err
		}
	}

	actors := record.Actors
	if len(actors) > c.cfg.Pipeline.CastLimit {
		actors = actors[:c.cfg.Pipeline.CastLimit]
	}
	for _, name := range actors {
		personID, err := w.ResolvePerson(ctx, name)
		if err != nil {
			return err
		}
		if err := w.AddCastMember(ctx, movieID, personID); err != nil {
			return err
		}
	}

	if record.IMDBRating != nil {
		score := ratings.NormalizeScore(*record.IMDBRating)
		if err := w.UpsertRating(ctx, &store.Rating{
			MovieID: movieID, Source: ratings.SourceIMDB, Score: &score, VoteCount: record.IMDBVotes,
		}); err != nil {
			return err
		}
	}
	for source, raw := range map[string]string{
		ratings.SourceRottenTomatoes: record.RottenTomatoes,
		ratings.SourceMetacritic:     record.Metacritic,
	} {
		if raw == "" {
			continue
		}
		score, err := ratings.Normalize(source, raw)
		if err != nil {
			continue
		}
		if err := w.UpsertRating(ctx, &store.Rating{MovieID: movieID, Source: source, Score: &score}); err != nil {
			return err
		}
	}

	if record.BoxOffice != nil {
		if err := w.UpsertFinancials(ctx, &store.Financials{MovieID: movieID, RevenueDomestic: record.BoxOffice}); err != nil {
			return err
		}
	}

	if err := w.UpsertStreamingPopularity(ctx, &store.StreamingPopularity{
		MovieID:         movieID,
		Platform:        "Netflix",
		Rank:            rank,
		HoursViewed:     c.syntheticHours(rank),
		MeasurementWeek: time.Now().UTC(),
	}); err != nil {
		return err
	}

	return w.UpsertSentiment(ctx, movieID, string(sentiment.Analyze(record.Plot)))
}

// syntheticHours fabricates a viewing figure that declines with rank, since
// the Top 10 page publishes no hour counts.
func (c *Collector) syntheticHours(rank int) int64 {
	base := int64(11-rank) * 1_000_000
	return base + c.rng.Int63n(500_000)
}

func firstListEntry(value string) string {
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}
