// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Two drivers are supported, selected by cliparse.Config.DatabaseType:

  - sqlite (default): modernc.org/sqlite, pure Go, one open connection
  - postgres: github.com/lib/pq

	conn, err := db.Open(cfg)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
All SQL uses $N placeholders, which both drivers accept.

# Tables

  - member: residents (name, unit, contact info)
  - poll: poll metadata and open/closed state
  - poll_option: options keyed by (poll_id, option_index) with vote_count
  - vote: the vote ledger, primary key (poll_id, member_id)

# Relationships

	poll 1──* poll_option
	poll 1──* vote
	member 1──* vote

All foreign keys use ON DELETE CASCADE.

# Constraint Errors

The vote ledger's primary key is what enforces one vote per member per poll.
IsUniqueViolation recognises the resulting error from either driver:

	if db.IsUniqueViolation(err) {
		// already voted
	}
*/
package db
