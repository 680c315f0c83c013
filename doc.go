// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ToastyVotes server and CLI.

ToastyVotes runs voting sessions for Toastmasters meetings. A platform admin
opens a session listing the evening's speakers, evaluators and table topics
speakers; members vote once per category through the session's short code;
results stay sealed until the owner closes polls or publishes them.

# Starting the Server

Configuration comes from environment variables (a .env file is loaded when
present) and may be overridden with flags:

	TOKEN_SECRET=... go run . serve

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..."

# Commands

	serve                          Run the HTTP API
	grant-admin [--create] <user>  Make a user a platform admin
	revoke-admin <user>            Remove platform admin rights
	issue-token <user>             Print a bearer token
	results <code>                 Print a session tally

# Configuration

Required settings:

  - TOKEN_SECRET (-token-secret): HMAC secret for bearer tokens (serve, issue-token)

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_URL (-d): SQLite file or PostgreSQL URL (default: toasty-votes.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_TTL (-session-ttl): Session lifetime (default: 24h)
  - DEFAULT_SESSION_TITLE (-default-title): Title for untitled sessions
  - LOG_LEVEL, LOG_FORMAT: slog level and text/json output
  - CORS_ALLOWED_ORIGINS, RATE_LIMIT_PER_MINUTE: HTTP edge settings
  - NATS_URL: Publish session events to NATS when set
  - OTEL_EXPORTER_OTLP_ENDPOINT: Export traces when set

# Architecture

  - commands: cobra CLI (serve and admin commands)
  - router: chi routes and middleware stack
  - handlers: HTTP request handlers over the voting service
  - middleware: logging, actor resolution, JSON helpers
  - voting: sessions, ballots, tallies and the permission policy
  - identity: bearer token resolution and admin management
  - models: persisted and wire types
  - auth: session codes, username validation, token signing
  - db: gorm connection, migration and error classification
  - events, metrics, telemetry: NATS events, Prometheus, OpenTelemetry
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
