// Package tmdb wraps The Movie Database API endpoints used for discovering
// titles and fetching per-movie details and credits.
package tmdb
