package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertFinancials writes budget and revenue figures for a movie.
func (s session) UpsertFinancials(ctx context.Context, fin *Financials) error {
	if fin == nil || fin.MovieID == "" {
		return errors.New("financials require a movie id")
	}
	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO financials (movie_id, budget, revenue_domestic, revenue_international)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (movie_id) DO UPDATE SET
             budget = excluded.budget,
             revenue_domestic = excluded.revenue_domestic,
             revenue_international = excluded.revenue_international`,
		fin.MovieID,
		nullableInt(fin.Budget),
		nullableInt(fin.RevenueDomestic),
		nullableInt(fin.RevenueInternational),
	)
	if err != nil {
		return fmt.Errorf("upsert financials: %w", err)
	}
	return nil
}

// UpsertStreamingPopularity writes a platform popularity observation.
func (s session) UpsertStreamingPopularity(ctx context.Context, pop *StreamingPopularity) error {
	if pop == nil || pop.MovieID == "" || pop.Platform == "" {
		return errors.New("streaming popularity requires movie id and platform")
	}
	week := pop.MeasurementWeek
	if week.IsZero() {
		week = time.Now().UTC()
	}
	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO streaming_popularity (movie_id, platform_name, rank, hours_viewed, measurement_week)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT (movie_id, platform_name) DO UPDATE SET
             rank = excluded.rank,
             hours_viewed = excluded.hours_viewed,
             measurement_week = excluded.measurement_week`,
		pop.MovieID,
		pop.Platform,
		pop.Rank,
		pop.HoursViewed,
		week.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert streaming popularity: %w", err)
	}
	return nil
}

// UpsertSentiment records a movie's plot sentiment label.
func (s session) UpsertSentiment(ctx context.Context, movieID, label string) error {
	if movieID == "" || label == "" {
		return errors.New("sentiment requires movie id and label")
	}
	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO sentiments (movie_id, label) VALUES (?, ?)
         ON CONFLICT (movie_id) DO UPDATE SET label = excluded.label`,
		movieID, label,
	)
	if err != nil {
		return fmt.Errorf("upsert sentiment: %w", err)
	}
	return nil
}

// SentimentBreakdown counts stored movies grouped by sentiment label.
func (s session) SentimentBreakdown(ctx context.Context) (map[string]int64, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT label, COUNT(1) FROM sentiments GROUP BY label`)
	if err != nil {
		return nil, fmt.Errorf("sentiment breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]int64)
	for rows.Next() {
		var label string
		var count int64
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scan sentiment breakdown: %w", err)
		}
		breakdown[label] = count
	}
	return breakdown, rows.Err()
}

// GetFinancials fetches financials for a movie, or nil when absent.
func (s session) GetFinancials(ctx context.Context, movieID string) (*Financials, error) {
	row := s.q.QueryRowContext(
		ctx,
		`SELECT movie_id, budget, revenue_domestic, revenue_international FROM financials WHERE movie_id = ?`,
		movieID,
	)

	var (
		fin      Financials
		budget   sql.NullInt64
		domestic sql.NullInt64
		intl     sql.NullInt64
	)
	err := row.Scan(&fin.MovieID, &budget, &domestic, &intl)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get financials: %w", err)
	}
	if budget.Valid {
		fin.Budget = &budget.Int64
	}
	if domestic.Valid {
		fin.RevenueDomestic = &domestic.Int64
	}
	if intl.Valid {
		fin.RevenueInternational = &intl.Int64
	}
	return &fin, nil
}
