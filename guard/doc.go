// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package guard decides who may enter which surface.
//
// Check is a pure function from (user, allowed roles) to a decision; it
// never consults global state, so every surface applies exactly the same
// policy and the policy is trivially testable. Denials distinguish "not
// signed in" (go log in) from "signed in as the wrong role" (go home).
package guard
