// Package main hosts the filmtrend CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto pipeline runs
// (collect, top10, rt-update, analyze), catalog reports, and configuration
// scaffolding. It centralizes configuration resolution, logger setup, run
// locking, and database access so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
