// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the guildvote binary: a terminal front end for a
student-guild election, plus an embedded demo election service.

Voters check in with their registration number, confirm a one-time code,
and cast a full ballot. Staff run their dashboards from the same binary.

# Commands

	guildvote voter       check in and cast a ballot
	guildvote candidate   file a nomination
	guildvote officer     review nominations
	guildvote admin       manage positions, the roll, audit, stats
	guildvote serve       run the demo election service

# Configuration

Client commands:

  - SERVICE_URL (-s): Election service base URL (default: the local demo service)
  - REQUEST_TIMEOUT (-timeout): Per-request timeout (default: 10s)

The demo service additionally needs:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): Connection string (required for postgres)
  - STAFF_KEY_SALT (-staff-salt): Secret for staff key HMAC
  - AUDIT_SALT (-audit-salt): Secret for audit IP hashing
  - PORT (-p): Server port (default: 4117)

A .env file in the working directory is loaded first.

# Architecture

  - flow: the voter's ballot state machine (ID, OTP, BALLOT, DONE)
  - remote: HTTP client for the election service contract
  - session, guard: who is signed in, and who may enter which surface
  - terminal: the interactive loops per role
  - report: text dashboards and CSV export
  - service: the demo election service (handlers over sql.DB)
  - middleware, models, auth, db, cliparse, testutil: shared plumbing

See package documentation for each component.
*/
package main
