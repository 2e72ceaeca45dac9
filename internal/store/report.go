package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RatingsOverviewRow is one line of the ratings report: the IMDb row carries
// the scraped critics/audience columns in the legacy layout.
type RatingsOverviewRow struct {
	Title         string
	IMDBScore     *float64
	CriticsScore  *float64
	AudienceScore *float64
	Metacritic    *float64
}

// RatingsOverview joins movies against their IMDb and Metacritic rating rows
// for report output, ordered by title.
func (s session) RatingsOverview(ctx context.Context) ([]RatingsOverviewRow, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT m.title,
                r1.score, r1.critics_score, r1.audience_score,
                r2.score
         FROM movies m
         LEFT JOIN ratings r1 ON m.movie_id = r1.movie_id AND r1.source_name = 'IMDb'
         LEFT JOIN ratings r2 ON m.movie_id = r2.movie_id AND r2.source_name = 'Metacritic'
         ORDER BY m.title`,
	)
	if err != nil {
		return nil, fmt.Errorf("ratings overview: %w", err)
	}
	defer rows.Close()

	var out []RatingsOverviewRow
	for rows.Next() {
		var (
			row        RatingsOverviewRow
			imdb       sql.NullFloat64
			critics    sql.NullFloat64
			audience   sql.NullFloat64
			metacritic sql.NullFloat64
		)
		if err := rows.Scan(&row.Title, &imdb, &critics, &audience, &metacritic); err != nil {
			return nil, fmt.Errorf("scan ratings overview: %w", err)
		}
		if imdb.Valid {
			row.IMDBScore = &imdb.Float64
		}
		if critics.Valid {
			row.CriticsScore = &critics.Float64
		}
		if audience.Valid {
			row.AudienceScore = &audience.Float64
		}
		if metacritic.Valid {
			row.Metacritic = &metacritic.Float64
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TopRatedReport returns the highest scoring analyzed movies.
func (s session) TopRatedReport(ctx context.Context, limit int) ([]TopRatedRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT movie_id, title, genre, imdb_rating, rt_rating, metacritic_rating, avg_score, vote_count, release_year
         FROM top_rated_movies
         ORDER BY avg_score DESC, title
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top rated report: %w", err)
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
			return nil, fmt.Errorf("scan top rated report: %w", err)
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
