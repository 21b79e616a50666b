// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines wire and domain types shared by the election client
and the demo service.

# Wire Types

Requests sent to the election service:

  - RequestCodeRequest: regNo
  - VerifyCodeRequest: regNo, code
  - SubmitBallotRequest: votes ([]VoteSelection)
  - CreatePositionRequest, AddVoterRequest, SubmitNominationRequest,
    UpdateCandidateStatusRequest, UpdateVoterStatusRequest: staff operations

Responses use the Envelope wrapper:

	{"success": true, "otp": "482913"}
	{"success": false, "message": "Registration number not found"}

A success=false body is a soft service failure; the remote client turns it
into a *remote.ServiceError rather than a transport error.

# Domain Types

  - Position: contested seat with semester and voting window
  - Candidate: nomination with approval status (SUBMITTED/APPROVED/REJECTED)
  - Voter: roll entry with eligibility status
  - Vote: one cast (position, candidate) pair
  - AuditLogEntry: staff/system activity record
  - User: authenticated actor held by a session
  - Stats: raw counts for the admin dashboard

# Constants

Roles:

	RoleAdmin, RoleOfficer, RoleCandidate, RoleVoter, RoleGuest

Voter roll statuses:

	VoterEligible → VoterVerified → VoterVoted, plus VoterBlocked

Candidate statuses:

	CandidateSubmitted → CandidateApproved | CandidateRejected

Semesters:

	SemesterAdvent, SemesterTrinity, SemesterEaster
*/
package models
