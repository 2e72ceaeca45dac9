package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertRating writes a rating row. A re-run for the same (movie, source)
// overwrites score and vote_count and refreshes last_updated; the legacy
// critics/audience columns are left alone so scraped values survive.
func (s session) UpsertRating(ctx context.Context, rating *Rating) error {
	if rating == nil || rating.MovieID == "" || rating.Source == "" {
		return errors.New("rating requires movie id and source")
	}
	updated := rating.LastUpdated
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO ratings (movie_id, source_name, score, vote_count, critics_score, audience_score, last_updated)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT (movie_id, source_name) DO UPDATE SET
             score = excluded.score,
             vote_count = excluded.vote_count,
             last_updated = excluded.last_updated`,
		rating.MovieID,
		rating.Source,
		nullableFloat(rating.Score),
		nullableInt(rating.VoteCount),
		nullableFloat(rating.CriticsScore),
		nullableFloat(rating.AudienceScore),
		updated.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// MovieRatings returns all rating rows for a movie.
func (s session) MovieRatings(ctx context.Context, movieID string) ([]Rating, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT movie_id, source_name, score, vote_count, critics_score, audience_score, last_updated
         FROM ratings WHERE movie_id = ? ORDER BY source_name`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, *rating)
	}
	return ratings, rows.Err()
}

// legacySources are the rows that carry the overloaded critics/audience
// columns written by rt-update.
const legacySourcesClause = `source_name IN ('IMDb', 'Metacritic')`

// UpdateLegacyCritics writes a scraped critics score onto a movie's IMDb and
// Metacritic rows. Returns the number of rows touched.
func (s session) UpdateLegacyCritics(ctx context.Context, movieID string, score float64) (int64, error) {
	res, err := s.q.ExecContext(
		ctx,
		`UPDATE ratings SET critics_score = ?, last_updated = ? WHERE movie_id = ? AND `+legacySourcesClause,
		score,
		time.Now().UTC().Format(time.RFC3339Nano),
		movieID,
	)
	if err != nil {
		return 0, fmt.Errorf("update critics score: %w", err)
	}
	return res.RowsAffected()
}

// UpdateLegacyAudience writes a scraped audience score onto a movie's IMDb
// and Metacritic rows. Returns the number of rows touched.
func (s session) UpdateLegacyAudience(ctx context.Context, movieID string, score float64) (int64, error) {
	res, err := s.q.ExecContext(
		ctx,
		`UPDATE ratings SET audience_score = ?, last_updated = ? WHERE movie_id = ? AND `+legacySourcesClause,
		score,
		time.Now().UTC().Format(time.RFC3339Nano),
		movieID,
	)
	if err != nil {
		return 0, fmt.Errorf("update audience score: %w", err)
	}
	return res.RowsAffected()
}

// LegacyScorePair is one (critics, audience) observation from the legacy
// rows, used to compute the fill means.
type LegacyScorePair struct {
	Critics  *float64
	Audience *float64
}

// LegacyScorePairs returns critics/audience values across all legacy rows.
func (s session) LegacyScorePairs(ctx context.Context) ([]LegacyScorePair, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT critics_score, audience_score FROM ratings WHERE `+legacySourcesClause,
	)
	if err != nil {
		return nil, fmt.Errorf("query legacy scores: %w", err)
	}
	defer rows.Close()

	var pairs []LegacyScorePair
	for rows.Next() {
		var critics, audience sql.NullFloat64
		if err := rows.Scan(&critics, &audience); err != nil {
			return nil, fmt.Errorf("scan legacy scores: %w", err)
		}
		var pair LegacyScorePair
		if critics.Valid {
			pair.Critics = &critics.Float64
		}
		if audience.Valid {
			pair.Audience = &audience.Float64
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

// FillNullLegacyCritics sets the critics column on legacy rows where it is
// still null. Returns the number of rows filled.
func (s session) FillNullLegacyCritics(ctx context.Context, value float64) (int64, error) {
	res, err := s.q.ExecContext(
		ctx,
		`UPDATE ratings SET critics_score = ? WHERE critics_score IS NULL AND `+legacySourcesClause,
		value,
	)
	if err != nil {
		return 0, fmt.Errorf("fill null critics: %w", err)
	}
	return res.RowsAffected()
}

// FillNullLegacyAudience sets the audience column on legacy rows where it is
// still null. Returns the number of rows filled.
func (s session) FillNullLegacyAudience(ctx context.Context, value float64) (int64, error) {
	res, err := s.q.ExecContext(
		ctx,
		`UPDATE ratings SET audience_score = ? WHERE audience_score IS NULL AND `+legacySourcesClause,
		value,
	)
	if err != nil {
		return 0, fmt.Errorf("fill null audience: %w", err)
	}
	return res.RowsAffected()
}

func scanRating(scanner interface{ Scan(dest ...any) error }) (*Rating, error) {
	var (
		rating     Rating
		score      sql.NullFloat64
		voteCount  sql.NullInt64
		critics    sql.NullFloat64
		audience   sql.NullFloat64
		updatedRaw string
	)
	if err := scanner.Scan(
		&rating.MovieID,
		&rating.Source,
		&score,
		&voteCount,
		&critics,
		&audience,
		&updatedRaw,
	); err != nil {
		return nil, fmt.Errorf("scan rating: %w", err)
	}

	if score.Valid {
		rating.Score = &score.Float64
	}
	if voteCount.Valid {
		rating.VoteCount = &voteCount.Int64
	}
	if critics.Valid {
		rating.CriticsScore = &critics.Float64
	}
	if audience.Valid {
		rating.AudienceScore = &audience.Float64
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		rating.LastUpdated = updated
	}
	return &rating, nil
}
