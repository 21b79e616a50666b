// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package remote is the client for the election service: the single seam
through which the voter flow and the staff dashboards reach the backend.

# Creating a Client

	client := remote.NewClient("https://elections.example", 10*time.Second)

The timeout bounds every request. A hung or unreachable service resolves to
a transport error; the caller is never left waiting indefinitely.

# Failure Taxonomy

Two kinds of failure come back from every operation:

  - *ServiceError: the service answered and said no. The Message field is
    the human-readable reason ("Invalid OTP", "Already voted"). Check with
    errors.As or remote.Reason.
  - anything else: transport failure - network error, 5xx, malformed body.
    Retry-eligible, but the client never retries on its own; the user
    re-triggers the action.

	if msg, soft := remote.Reason(err); soft {
		// show msg next to the field
	}

# Voter Operations

	otp, err := client.RequestCode(ctx, regNo)
	token, voter, err := client.VerifyCode(ctx, regNo, code)
	positions, err := client.Positions(ctx)
	candidates, err := client.ApprovedCandidates(ctx)
	err = client.SubmitBallot(ctx, token, votes)

SubmitBallot authenticates with the X-Session-Token header.

# Staff Operations

Position/voter-roll management, nomination review, audit log, stats, and
system reset authenticate with the X-Staff-Key header. These back the admin
and officer dashboards and carry no client-side invariants beyond form
validation.
*/
package remote
