// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package terminal is the interactive front end: one loop per role
// (voter, admin, officer, candidate), each translating typed lines into
// operations on the election client and phases into screens. The voter
// loop holds no election state of its own - the ballot state machine in
// package flow owns all of it. Staff loops sign in through a session
// holder and pass the route guard before any dashboard opens.
//
// With a TTY the loops prompt; with piped input they run in bare
// line-mode, which is what the tests use.
package terminal
