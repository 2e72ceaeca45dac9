// Package omdb wraps the OMDb API used to enrich movies with IMDb ratings,
// Rotten Tomatoes and Metacritic scores, and box office figures.
package omdb
