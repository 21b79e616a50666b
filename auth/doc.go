// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential generation for the demo election service.

# One-Time Codes

OTPs are random numeric codes drawn uniformly via rejection sampling:

	code, err := auth.GenerateOTP(6)  // "482913"

The demo service stores the code with an expiry and, matching the original
system's relaxed trust model, returns it in-band to the requester.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets with a "tok_" prefix:

	token, err := auth.GenerateSessionToken()

A token is issued once per verified voter and spent by ballot submission.

# Staff Keys

Staff keys use HMAC-SHA256 to create deterministic, verifiable keys:

	key := auth.GenerateStaffKey(models.RoleAdmin, salt)
	err := auth.ValidateStaffKey(models.RoleAdmin, key, salt)

Deterministic keys let the service validate without storing them.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving audit logging:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
