// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database. dbType is "sqlite" or
// "postgres"; the matching driver is registered by this package's imports.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the election service.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are written by the application rather than via DEFAULT NOW()
// so the same DDL runs on sqlite and postgres.
const schema = `
-- Voter roll
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    reg_no TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    email TEXT,
    program TEXT,
    status TEXT NOT NULL DEFAULT 'ELIGIBLE' CHECK (status IN ('ELIGIBLE', 'VERIFIED', 'VOTED', 'BLOCKED'))
);

CREATE INDEX IF NOT EXISTS idx_voter_reg_no ON voter(reg_no);
CREATE INDEX IF NOT EXISTS idx_voter_status ON voter(status);

-- One-time codes (one active code per registration number)
CREATE TABLE IF NOT EXISTS otp_code (
    reg_no TEXT PRIMARY KEY REFERENCES voter(reg_no) ON DELETE CASCADE,
    code TEXT NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

-- Issued session tokens
CREATE TABLE IF NOT EXISTS voter_session (
    token TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    issued_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voter_session_voter ON voter_session(voter_id);

-- Contested positions
CREATE TABLE IF NOT EXISTS position (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    seats INTEGER NOT NULL DEFAULT 1,
    opens_at TIMESTAMP,
    closes_at TIMESTAMP,
    semester TEXT NOT NULL CHECK (semester IN ('Advent', 'Trinity', 'Easter')),
    eligibility_rules TEXT
);

-- Nominations
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    position_id TEXT NOT NULL REFERENCES position(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    reg_no TEXT NOT NULL,
    manifesto TEXT,
    photo_url TEXT,
    status TEXT NOT NULL DEFAULT 'SUBMITTED' CHECK (status IN ('SUBMITTED', 'APPROVED', 'REJECTED')),
    reason TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidate_position ON candidate(position_id);
CREATE INDEX IF NOT EXISTS idx_candidate_status ON candidate(status);

-- Cast votes. Deliberately not linked to the voter row: the roll records
-- THAT a voter voted, the vote records only the choice.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    position_id TEXT NOT NULL REFERENCES position(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    cast_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_position ON vote(position_id);
CREATE INDEX IF NOT EXISTS idx_vote_candidate ON vote(candidate_id);

-- Audit trail
CREATE TABLE IF NOT EXISTS audit_log (
    id TEXT PRIMARY KEY,
    actor_type TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    action TEXT NOT NULL,
    details TEXT,
    ip_hash TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
`
