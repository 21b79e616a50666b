// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package service is the demo election service: an http.Handler over a
// sql.DB that implements the same contract the terminal's remote client
// speaks. It stands in for the guild's real election backend in tests,
// demos, and offline runs (`guildvote serve`).
//
// Voter-facing responses use the success/message envelope: a false
// success with a human-readable message is a soft failure the client
// shows verbatim; 5xx responses are transport failures. One-time codes
// live five minutes and are returned in the response body - this
// deployment has no delivery channel, the code is read off the screen.
// A session token authorizes exactly one ballot; casting it retires the
// token, moves the voter to VOTED, and lands every vote in a single
// transaction.
//
// Staff endpoints authenticate with an HMAC-derived key per role in the
// X-Staff-Key header. Every mutation appends to the audit log with a
// salted hash of the caller's IP.
package service
