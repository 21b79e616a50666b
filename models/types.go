// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Actor role constants
const (
	RoleAdmin     = "ADMIN"
	RoleOfficer   = "OFFICER"
	RoleCandidate = "CANDIDATE"
	RoleVoter     = "VOTER"
	RoleGuest     = "GUEST"
)

// Candidate nomination status constants
const (
	CandidateSubmitted = "SUBMITTED"
	CandidateApproved  = "APPROVED"
	CandidateRejected  = "REJECTED"
)

// Voter roll status constants
const (
	VoterEligible = "ELIGIBLE"
	VoterVerified = "VERIFIED"
	VoterVoted    = "VOTED"
	VoterBlocked  = "BLOCKED"
)

// Semester constants (guild elections run per academic term)
const (
	SemesterAdvent  = "Advent"
	SemesterTrinity = "Trinity"
	SemesterEaster  = "Easter"
)

// Request types

type RequestCodeRequest struct {
	RegNo string `json:"regNo"`
}

type VerifyCodeRequest struct {
	RegNo string `json:"regNo"`
	Code  string `json:"code"`
}

type SubmitBallotRequest struct {
	Votes []VoteSelection `json:"votes"`
}

// VoteSelection is one (position, candidate) pair of a submitted ballot.
type VoteSelection struct {
	PositionID  string `json:"positionId"`
	CandidateID string `json:"candidateId"`
}

type CreatePositionRequest struct {
	Name             string    `json:"name"`
	Seats            int       `json:"seats"`
	OpensAt          time.Time `json:"opensAt"`
	ClosesAt         time.Time `json:"closesAt"`
	Semester         string    `json:"semester"`
	EligibilityRules string    `json:"eligibilityRules"`
}

type AddVoterRequest struct {
	RegNo   string `json:"regNo"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Program string `json:"program"`
}

type UpdateVoterStatusRequest struct {
	Status string `json:"status"`
}

type SubmitNominationRequest struct {
	PositionID string `json:"positionId"`
	Name       string `json:"name"`
	RegNo      string `json:"regNo"`
	Manifesto  string `json:"manifesto"`
	PhotoURL   string `json:"photoUrl"`
}

type UpdateCandidateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Response types

// Envelope is the service's success/message wrapper for POST responses.
// Soft failures carry success=false and a human-readable message.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type RequestCodeResponse struct {
	Envelope
	OTP string `json:"otp,omitempty"`
}

type VerifyCodeResponse struct {
	Envelope
	Token string `json:"token,omitempty"`
	Voter *Voter `json:"voter,omitempty"`
}

type ImportVotersResponse struct {
	Envelope
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Domain types

type Position struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Seats            int       `json:"seats"`
	OpensAt          time.Time `json:"opensAt"`
	ClosesAt         time.Time `json:"closesAt"`
	Semester         string    `json:"semester"`
	EligibilityRules string    `json:"eligibilityRules"`
}

type Candidate struct {
	ID         string    `json:"id"`
	PositionID string    `json:"positionId"`
	Name       string    `json:"name"`
	RegNo      string    `json:"regNo"`
	Manifesto  string    `json:"manifesto"`
	PhotoURL   string    `json:"photoUrl"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"` // set on rejection
	CreatedAt  time.Time `json:"createdAt"`
}

type Voter struct {
	ID      string `json:"id"`
	RegNo   string `json:"regNo"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Program string `json:"program"`
	Status  string `json:"status"`
}

type Vote struct {
	ID          string    `json:"id"`
	PositionID  string    `json:"positionId"`
	CandidateID string    `json:"candidateId"`
	CastAt      time.Time `json:"castAt"`
}

type AuditLogEntry struct {
	ID        string    `json:"id"`
	ActorType string    `json:"actorType"`
	ActorID   string    `json:"actorId"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// User is an authenticated actor for the lifetime of one terminal session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token,omitempty"` // voters only
}

// Stats is the raw-count summary the admin dashboard renders. The service
// reports counts only; anything resembling a tally algorithm stays with the
// election service.
type Stats struct {
	TotalVoters    int            `json:"total_voters"`
	VotedVoters    int            `json:"voted_voters"`
	BlockedVoters  int            `json:"blocked_voters"`
	TotalPositions int            `json:"total_positions"`
	TotalBallots   int            `json:"total_ballots"`
	VotesByOption  map[string]int `json:"votes_by_candidate"` // candidate_id -> count
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
