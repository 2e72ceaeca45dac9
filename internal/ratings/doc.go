// Package ratings normalizes per-source rating scales onto 0-100 and
// computes aggregate scores across sources.
package ratings
