// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminKeySalt: Secret for poll admin key HMAC (required)
  - MemberTokenSalt: Secret for member token HMAC (required)
  - SweepInterval: How often polls past their end date are closed (default: 1m)
  - LogLevel: slog level, debug with -v or LOG_LEVEL=debug

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-env              Dotenv file to load (default .env, missing is fine)
	-sweep-interval   Expiry sweep interval
	-v                Debug logging
	--admin-salt      Admin key salt
	--member-salt     Member token salt

# Environment Variables

Flags fall back to environment variables, which may come from the dotenv
file (loaded with github.com/joho/godotenv, never overriding real env):

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	SWEEP_INTERVAL    → -sweep-interval
	ADMIN_KEY_SALT    → --admin-salt
	MEMBER_TOKEN_SALT → --member-salt

CLI flags take precedence over environment variables.
*/
package cliparse
