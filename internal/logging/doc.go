// Package logging builds slog loggers with console or JSON output and an
// optional logfile fanout.
package logging
