// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package logging provides centralized zerolog-based logging for Landmark.
//
// A single global logger is configured once at startup from the logging
// section of the application config. Packages log through the helpers in
// this package rather than constructing their own zerolog instances.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Operation failed")
//
//	// With request context (request_id, correlation_id)
//	logging.Ctx(ctx).Info().Int("records", n).Msg("Bulk load complete")
//
// # slog Bridge
//
// The supervisor tree requires a *slog.Logger for sutureslog. NewSlogLogger
// returns one that writes through zerolog, so supervisor events share the
// format and level of every other log line.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
