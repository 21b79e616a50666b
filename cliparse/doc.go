// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[2:])

A .env file in the working directory is loaded first (via godotenv); explicit
environment variables and CLI flags both override it.

# Config Fields

  - ServiceURL: Election service base URL (default: http://localhost:<port>)
  - Timeout: Per-request timeout for remote calls (default: 10s)
  - Port: Demo service listen port (default: 4117)
  - DatabaseURL: sqlite DSN or PostgreSQL connection string
  - DatabaseType: "sqlite" (default) or "postgres"
  - StaffKeySalt: Secret for staff key HMAC (demo service only)
  - AuditSalt: Secret for audit-log IP hashing (demo service only)

# CLI Flags

	-s            Election service base URL
	-timeout      Per-request timeout
	-p            Demo service port
	-d            Database URL
	-t            Database type (sqlite or postgres)
	-staff-salt   Staff key salt
	-audit-salt   Audit IP-hash salt

# Environment Variables

Flags fall back to environment variables:

	SERVICE_URL     → -s
	REQUEST_TIMEOUT → -timeout
	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	STAFF_KEY_SALT  → -staff-salt
	AUDIT_SALT      → -audit-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags validates what every subcommand needs (database type, postgres URL
presence). The salts are only required when running the demo service:

	if err := cfg.RequireServiceSecrets(); err != nil {
		log.Fatal(err)
	}
*/
package cliparse
