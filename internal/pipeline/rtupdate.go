package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"filmtrend/internal/config"
	"filmtrend/internal/ratings"
	"filmtrend/internal/scrape"
	"filmtrend/internal/services"
	"filmtrend/internal/store"
	"filmtrend/internal/titlematch"
)

// RTStats summarizes an rt-update run.
type RTStats struct {
	Scraped         int
	ExactMatch      int
	PartialMatch    int
	NoMatch         int
	CriticsUpdated  int
	AudienceUpdated int
	CriticsFilled   int64
	AudienceFilled  int64
}

// rtFetcher is the listing source, satisfied by *scrape.RottenTomatoes.
type rtFetcher interface {
	Fetch(ctx context.Context) ([]scrape.RTEntry, error)
}

// RTUpdater applies scraped Rotten Tomatoes scores to stored movies and
// back-fills remaining nulls with the column means.
type RTUpdater struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	rt     rtFetcher
}

// NewRTUpdater wires an RTUpdater from its collaborators.
func NewRTUpdater(cfg *config.Config, logger *slog.Logger, st *store.Store, rt rtFetcher) (*RTUpdater, error) {
	if cfg == nil || st == nil || rt == nil {
		return nil, errors.New("rt updater requires config, store, and scraper")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RTUpdater{cfg: cfg, logger: logger, store: st, rt: rt}, nil
}

// Run scrapes the listing, matches titles against stored movies, writes the
// critics/audience scores onto the legacy rating rows, and fills the rows
// still null with the column means. The whole update commits as one
// transaction.
func (u *RTUpdater) Run(ctx context.Context) (*RTStats, error) {
	runID := uuid.NewString()
	u.logger.Info("rt-update run starting", "run_id", runID)

	entries, err := u.rt.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := u.store.ListMovieTitles(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "pipeline", "rt-update", "load movie titles", err)
	}
	candidates := make([]titlematch.Candidate, len(catalog))
	for i, entry := range catalog {
		candidates[i] = titlematch.Candidate{ID: entry.ID, Title: entry.Title}
	}

	tx, err := u.store.Begin(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "pipeline", "rt-update", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := &RTStats{Scraped: len(entries)}
	for _, entry := range entries {
		match := titlematch.Find(entry.Title, candidates)
		switch match.Kind {
		case titlematch.MatchExact:
			stats.ExactMatch++
		case titlematch.MatchPartial:
			stats.PartialMatch++
			u.logger.Debug("partial title match", "scraped", entry.Title, "stored", match.Title)
		default:
			stats.NoMatch++
			u.logger.Debug("no title match", "scraped", entry.Title)
			continue
		}

		if entry.CriticsScore != "" {
			score, err := ratings.Normalize(ratings.SourceRottenTomatoes, entry.CriticsScore)
			if err != nil {
				u.logger.Debug("unparsable critics score", "title", entry.Title, "raw", entry.CriticsScore)
			} else if err := u.applyCritics(ctx, tx, match.ID, score, stats); err != nil {
				return nil, err
			}
		}

		if entry.AudienceScore != "" {
			score, err := ratings.Normalize(ratings.SourceRottenTomatoes, entry.AudienceScore)
			if err != nil {
				u.logger.Debug("unparsable audience score", "title", entry.Title, "raw", entry.AudienceScore)
			} else if err := u.applyAudience(ctx, tx, match.ID, score, stats); err != nil {
				return nil, err
			}
		}
	}

	// Mean back-fill only applies to the overloaded column layout.
	if u.cfg.Ratings.LegacyRTColumns {
		if err := u.fillMeans(ctx, tx, stats); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "pipeline", "rt-update", "commit", err)
	}

	u.logger.Info("rt-update run finished",
		"run_id", runID,
		"scraped", stats.Scraped,
		"exact", stats.ExactMatch,
		"partial", stats.PartialMatch,
		"no_match", stats.NoMatch,
		"critics_updated", stats.CriticsUpdated,
		"audience_updated", stats.AudienceUpdated,
		"critics_filled", stats.CriticsFilled,
		"audience_filled", stats.AudienceFilled,
	)
	return stats, nil
}

// applyCritics writes a critics score either onto the legacy rows or as a
// dedicated Rotten Tomatoes rating row, depending on configuration.
func (u *RTUpdater) applyCritics(ctx context.Context, tx *store.Tx, movieID string, score float64, stats *RTStats) error {
	if u.cfg.Ratings.LegacyRTColumns {
		touched, err := tx.UpdateLegacyCritics(ctx, movieID, score)
		if err != nil {
			return services.Wrap(services.ErrStorage, "pipeline", "rt-update", "update critics", err)
		}
		if touched > 0 {
			stats.CriticsUpdated++
		}
		return nil
	}
	if err := tx.UpsertRating(ctx, &store.Rating{
		MovieID: movieID, Source: ratings.SourceRottenTomatoes, Score: &score,
	}); err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "rt-update", "upsert critics", err)
	}
	stats.CriticsUpdated++
	return nil
}

// applyAudience mirrors applyCritics for the audience score.
func (u *RTUpdater) applyAudience(ctx context.Context, tx *store.Tx, movieID string, score float64, stats *RTStats) error {
	if u.cfg.Ratings.LegacyRTColumns {
		touched, err := tx.UpdateLegacyAudience(ctx, movieID, score)
		if err != nil {
			return services.Wrap(services.ErrStorage, "pipeline", "rt-update", "update audience", err)
		}
		if touched > 0 {
			stats.AudienceUpdated++
		}
		return nil
	}
	if err := tx.UpsertRating(ctx, &store.Rating{
		MovieID: movieID, Source: "Rotten Tomatoes Audience", Score: &score,
	}); err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "rt-update", "upsert audience", err)
	}
	stats.AudienceUpdated++
	return nil
}

// fillMeans computes the mean critics and audience scores across the legacy
// rows and writes them into the rows still null. Means come from the state
// after the scrape updates, matching the historical fill order.
func (u *RTUpdater) fillMeans(ctx context.Context, tx *store.Tx, stats *RTStats) error {
	pairs, err := tx.LegacyScorePairs(ctx)
	if err != nil {
		return services.Wrap(services.ErrStorage, "pipeline", "rt-update", "load legacy scores", err)
	}

	var criticsScores, audienceScores []float64
	for _, pair := range pairs {
		if pair.Critics != nil {
			criticsScores = append(criticsScores, *pair.Critics)
		}
		if pair.Audience != nil {
			audienceScores = append(audienceScores, *pair.Audience)
		}
	}

	if mean, ok := ratings.Aggregate(criticsScores); ok {
		filled, err := tx.FillNullLegacyCritics(ctx, mean)
		if err != nil {
			return services.Wrap(services.ErrStorage, "pipeline", "rt-update", "fill critics", err)
		}
		stats.CriticsFilled = filled
	}
	if mean, ok := ratings.Aggregate(audienceScores); ok {
		filled, err := tx.FillNullLegacyAudience(ctx, mean)
		if err != nil {
			return services.Wrap(services.ErrStorage, "pipeline", "rt-update", "fill audience", err)
		}
		stats.AudienceFilled = filled
	}
	return nil
}
