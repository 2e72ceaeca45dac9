// Package titlematch reconciles scraped display titles with stored movies
// using normalized exact and containment matching.
package titlematch
