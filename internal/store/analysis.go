package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ClearAnalysisTables empties the derived tables ahead of an analyze run.
func (s session) ClearAnalysisTables(ctx context.Context) error {
	for _, table := range []string{"ratings_compare", "top_rated_movies", "sentiment_reviews"} {
		if _, err := s.q.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// InsertRatingsCompare appends one row to the ratings_compare table.
func (s session) InsertRatingsCompare(ctx context.Context, row *RatingsCompareRow) error {
	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO ratings_compare (movie_id, title, genre, critics_score, audience_score, review_count, release_year)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.MovieID,
		row.Title,
		nullableString(row.Genre),
		nullableFloat(row.CriticsScore),
		nullableFloat(row.AudienceScore),
		nullableInt(row.ReviewCount),
		nullableInt(row.ReleaseYear),
	)
	if err != nil {
		return fmt.Errorf("insert ratings compare: %w", err)
	}
	return nil
}

// InsertTopRated appends one row to the top_rated_movies table.
func (s session) InsertTopRated(ctx context.Context, row *TopRatedRow) error {
	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO top_rated_movies (movie_id, title, genre, imdb_rating, rt_rating, metacritic_rating, avg_score, vote_count, release_year)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.MovieID,
		row.Title,
		nullableString(row.Genre),
		nullableFloat(row.IMDBRating),
		nullableFloat(row.RTRating),
		nullableFloat(row.MetacriticRating),
		nullableFloat(row.AvgScore),
		nullableInt(row.VoteCount),
		nullableInt(row.ReleaseYear),
	)
	if err != nil {
		return fmt.Errorf("insert top rated: %w", err)
	}
	return nil
}

// InsertSentimentReview appends one generated review row.
func (s session) InsertSentimentReview(ctx context.Context, row *SentimentReviewRow) error {
	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO sentiment_reviews (movie_id, title, genre, sentiment_label, sentiment_score, language)
         VALUES (?, ?, ?, ?, ?, ?)`,
		row.MovieID,
		row.Title,
		nullableString(row.Genre),
		row.Label,
		row.Score,
		row.Language,
	)
	if err != nil {
		return fmt.Errorf("insert sentiment review: %w", err)
	}
	return nil
}

// ListTopRated returns the full top_rated_movies table in insertion order.
func (s session) ListTopRated(ctx context.Context) ([]TopRatedRow, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT movie_id, title, genre, imdb_rating, rt_rating, metacritic_rating, avg_score, vote_count, release_year
         FROM top_rated_movies ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list top rated: %w", err)
	}
	defer rows.Close()

	var out []TopRatedRow
	for rows.Next() {
		var (
			row        TopRatedRow
			genre      sql.NullString
			imdb       sql.NullFloat64
			rt         sql.NullFloat64
			metacritic sql.NullFloat64
			avg        sql.NullFloat64
			votes      sql.NullInt64
			year       sql.NullInt64
		)
		if err := rows.Scan(&row.MovieID, &row.Title, &genre, &imdb, &rt, &metacritic, &avg, &votes, &year); err != nil {
			return nil, fmt.Errorf("scan top rated: %w", err)
		}
		row.Genre = genre.String
		if imdb.Valid {
			row.IMDBRating = &imdb.Float64
		}
		if rt.Valid {
			row.RTRating = &rt.Float64
		}
		if metacritic.Valid {
			row.MetacriticRating = &metacritic.Float64
		}
		if avg.Valid {
			row.AvgScore = &avg.Float64
		}
		if votes.Valid {
			row.VoteCount = &votes.Int64
		}
		if year.Valid {
			row.ReleaseYear = &year.Int64
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ReplaceTopRated rewrites the top_rated_movies table with the given rows,
// delete-all-then-reinsert. Used after imputation.
func (s session) ReplaceTopRated(ctx context.Context, rows []TopRatedRow) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM top_rated_movies`); err != nil {
		return fmt.Errorf("clear top rated: %w", err)
	}
	for i := range rows {
		if err := s.InsertTopRated(ctx, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReviewCount returns the number of generated reviews.
func (s session) ReviewCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM sentiment_reviews`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

// ReviewLabelCounts groups generated reviews by label.
func (s session) ReviewLabelCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT sentiment_label, COUNT(1) FROM sentiment_reviews GROUP BY sentiment_label`)
	if err != nil {
		return nil, fmt.Errorf("review label counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var label string
		var count int64
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scan review labels: %w", err)
		}
		counts[label] = count
	}
	return counts, rows.Err()
}
