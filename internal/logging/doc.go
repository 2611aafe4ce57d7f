// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

// Package logging provides the process-wide zerolog logger for BGPWatch.
//
// Initialize once from main with values from the logging config section:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//
// Then log with structured fields, always terminating with Msg or Send:
//
//	logging.Info().Str("category", a.AnomalyType).Msg("Alert received")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Upload failed")
//
// SlogHandler bridges slog-only libraries (sutureslog) onto the same logger.
package logging
