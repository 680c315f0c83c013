// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Environment variables are decoded first (with defaults), then CLI flags are
applied on top, so a flag always wins over the environment. Positional
arguments left after the flags are returned in Config.Args.

# CLI Flags

	-p             Server port
	-d             Database URL or SQLite file path
	-t             Database type (sqlite or postgres)
	-token-secret  Bearer token secret
	-session-ttl   Voting session lifetime
	-default-title Title used for sessions created without one
	-log-level     debug, info, warn, error
	-log-format    text or json

# Environment Variables

	PORT                        (default 3318)
	DATABASE_URL                (default toasty-votes.db)
	DATABASE_TYPE               (default sqlite)
	TOKEN_SECRET                (required to serve or issue tokens)
	SESSION_TTL                 (default 24h)
	DEFAULT_SESSION_TITLE       (default "Toastmasters Vote")
	LOG_LEVEL, LOG_FORMAT
	CORS_ALLOWED_ORIGINS        (default *)
	RATE_LIMIT_PER_MINUTE       (default 100)
	NATS_URL                    (events disabled when empty)
	OTEL_EXPORTER_OTLP_ENDPOINT (tracing disabled when empty)

A .env file in the working directory is loaded by the command layer before
parsing.
*/
package cliparse
