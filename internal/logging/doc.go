// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

// Package logging provides the zerolog-based structured logger used across Taptodine.
//
// A single global logger is configured once from main via Init and read everywhere
// else through the package-level helpers. Request-scoped fields (request ID, tenant,
// visitor session) travel in the context and are attached by Ctx.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("Server listening")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Menu refresh failed")
//
// # Configuration
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller info (default: false)
//
// # Suture Integration
//
// The supervisor tree logs through log/slog. NewSlogLogger returns an slog.Logger
// whose handler forwards records to the global zerolog logger:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// Always terminate event chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
