// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session holds the signed-in user for a single terminal surface.
//
// A Holder is an explicit object, not ambient state: the caller that
// constructs it decides which surfaces share a session. Login mints a
// fresh user id on every call and replaces whatever session existed, so
// switching roles is just logging in again. Current hands out copies, so
// the only way to change who is signed in is Login or Logout.
package session
