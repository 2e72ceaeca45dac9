// Package scrape pulls listings that have no API: the Rotten Tomatoes top
// box office page (via a rendering proxy) and the Netflix Top 10 page.
package scrape
