// Itemgraph - Catalog Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemgraph

// Package logging provides zerolog-based structured logging for itemgraph.
//
// A global logger is configured once at startup with Init. Components take
// a zerolog.Logger and add a "component" field; WithComponent derives one
// from the global logger.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	log := logging.WithComponent("cli")
//	log.Info().Str("catalog", path).Msg("loading catalog")
//	engine, err := recommend.NewEngine(cfg, logging.Logger())
//
// # Correlation IDs
//
// Each run and each build carries a short correlation ID and each lookup a
// request ID. Both travel in the context, optionally with a logger stored by
// ContextWithLogger; Ctx(ctx) returns that logger with the IDs attached:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Debug().Msg("reading catalog")
//	// {"level":"debug","correlation_id":"1a2b3c4d","message":"reading catalog"}
//
// # Configuration
//
// Level, format and caller come from the "logging" section of the config
// file or from LOG_LEVEL, LOG_FORMAT and LOG_CALLER (see package config).
//
// # Testing
//
// NewTestLogger writes JSON lines to any writer so tests can assert on
// fields:
//
//	var buf bytes.Buffer
//	engine, _ := recommend.NewEngine(cfg, logging.NewTestLogger(&buf))
package logging
