// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages the schema.

# Connecting

Open returns a GORM handle for SQLite (pure Go, the default) or PostgreSQL:

	database, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	defer db.Close(database)

SQLite files get foreign keys and a busy timeout enabled and run on a single
connection. PostgreSQL uses the lib/pq driver underneath GORM.

# Schema

Migrate creates all tables from the gorm tags in package models:

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times.

	user 1──1 admin_profile
	user 1──* session (owner)
	session 1──* candidate
	session 1──* vote
	candidate 1──* vote
	user 1──* vote (voter)

All foreign keys use ON DELETE CASCADE.

# Errors

IsUniqueViolation recognises duplicate-key errors from lib/pq, pgx, SQLite,
and GORM's translated ErrDuplicatedKey, so callers can map index rejections
to domain errors without caring which driver is in use.
*/
package db
