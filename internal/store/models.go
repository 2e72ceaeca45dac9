package store

import "time"

// Movie is one row in the movies table. Empty strings persist as NULL.
type Movie struct {
	ID          string
	Title       string
	ReleaseDate string
	Country     string
	Language    string
	Studio      string
	DirectorID  *int64
}

// MovieTitle pairs an id with its display title for matching.
type MovieTitle struct {
	ID    string
	Title string
}

// Rating is one row in the ratings table, keyed by (movie, source).
type Rating struct {
	MovieID       string
	Source        string
	Score         *float64
	VoteCount     *int64
	CriticsScore  *float64
	AudienceScore *float64
	LastUpdated   time.Time
}

// Financials is one row in the financials table.
type Financials struct {
	MovieID              string
	Budget               *int64
	RevenueDomestic      *int64
	RevenueInternational *int64
}

// StreamingPopularity is one row in the streaming_popularity table.
type StreamingPopularity struct {
	MovieID         string
	Platform        string
	Rank            int
	HoursViewed     int64
	MeasurementWeek time.Time
}

// RatingsCompareRow is one row of the ratings_compare analysis table.
type RatingsCompareRow struct {
	MovieID       string
	Title         string
	Genre         string
	CriticsScore  *float64
	AudienceScore *float64
	ReviewCount   *int64
	ReleaseYear   *int64
}

// TopRatedRow is one row of the top_rated_movies analysis table.
type TopRatedRow struct {
	MovieID          string
	Title            string
	Genre            string
	IMDBRating       *float64
	RTRating         *float64
	MetacriticRating *float64
	AvgScore         *float64
	VoteCount        *int64
	ReleaseYear      *int64
}

// SentimentReviewRow is one row of the sentiment_reviews analysis table.
type SentimentReviewRow struct {
	MovieID  string
	Title    string
	Genre    string
	Label    string
	Score    float64
	Language string
}
