// Package store persists movies, ratings, and derived analysis tables in a
// versioned SQLite database.
package store
