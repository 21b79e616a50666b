// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report renders the staff dashboards as plain text: aligned
// tables for positions, candidates, the voter roll, and the audit trail,
// a turnout summary, and CSV exports that round-trip through the import
// endpoint.
package report
