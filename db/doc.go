// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation for the demo
election service.

# Opening

Open selects the driver from the configured type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Supported types are "sqlite" (modernc.org/sqlite, pure Go, default) and
"postgres" (lib/pq).

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL avoids dialect-specific defaults so the same statements run on both
engines; timestamps are supplied by the application.

# Tables

The schema includes:

  - voter: Roll entry with eligibility status
  - otp_code: Active one-time code per registration number
  - voter_session: Issued session tokens
  - position: Contested seats with voting windows
  - candidate: Nominations with approval status
  - vote: Cast choices, not linked to voter identity
  - audit_log: Staff and system activity

# Relationships

	voter 1──1 otp_code
	voter 1──* voter_session
	position 1──* candidate
	position 1──* vote
	candidate 1──* vote

All foreign keys use ON DELETE CASCADE. The vote table carries no voter
reference: the roll records that a voter voted, the vote records only the
choice.
*/
package db
