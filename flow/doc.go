// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package flow implements the voter verification and ballot-casting state
machine.

# Phases

A voter moves through four ordered phases:

	ID ──RequestVerification──▶ OTP ──VerifyCode──▶ BALLOT ──SubmitVote──▶ DONE

plus the explicit Reset edge back to ID. No failure ever advances the
phase: soft service failures surface the service's message, transport
failures surface a generic retry message, and the voter stays exactly
where they were.

# Entering the Ballot

VerifyCode only reaches BALLOT when three calls all succeed: the code
verification and the two snapshot fetches (positions, approved candidates).
A partial snapshot is never shown. Once fetched, the snapshot is immutable
for the rest of the session - the ballot cannot change under the voter's
feet.

# Selections

	flow.Select("p1", "c1") // overwrites any earlier choice for p1

At most one candidate per position. The ballot is submittable iff every
position in the snapshot has a selection; a position with zero approved
candidates keeps the ballot permanently incomplete rather than being
silently skipped.

# Submission

SubmitVote holds an at-most-once guard: while one submit call is
outstanding, further attempts return ErrRequestInFlight without issuing a
network request. On success the selections freeze and the session token is
spent; on failure the selections are preserved for a retry.

# Ownership

Each Flow owns its verification session and selections exclusively.
Nothing survives the Flow: discarding it (logout) is the teardown, and a
restart begins again at ID with an empty selection set.
*/
package flow
