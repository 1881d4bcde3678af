// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the GatedNet poll API server.

GatedNet is gated-community management software. This server runs its
community polls: residents register, vote once per poll, and read live
tallies with percentages.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=gatednet.db ADMIN_KEY_SALT=... MEMBER_TOKEN_SALT=... go run .

Or against PostgreSQL with flags:

	go run . -t postgres -d "postgres://..." --admin-salt ... --member-salt ...

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for poll admin key HMAC
  - MEMBER_TOKEN_SALT (--member-salt): Secret for member token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SWEEP_INTERVAL (--sweep-interval): expiry sweep period (default: 1m)
  - LOG_LEVEL=debug (-v): debug logging

# Architecture

  - handlers: HTTP request handlers (polls, voting, results, members)
  - voting: poll store, atomic vote casting, tally, expiry sweep
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, member auth, JSON helpers
  - models: Request/response and domain types
  - auth: admin key and member token derivation, IDs
  - db: driver selection and schema creation
  - cliparse: Configuration parsing
  - client: typed Go client session for the API
*/
package main
