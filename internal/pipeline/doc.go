// Package pipeline orchestrates the collection, scraping, and analysis runs
// against the movie store.
package pipeline
