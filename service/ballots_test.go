package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkisa/guildvote/models"
	"github.com/mkisa/guildvote/testutil"
)

func TestSubmitBallot(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBallotHandler(conn, cfg)

	treasurerID := testutil.CreateTestPosition(t, conn, "Treasurer")
	speakerID := testutil.CreateTestPosition(t, conn, "Speaker")
	approvedT := testutil.CreateTestCandidate(t, conn, treasurerID, "Okello Bosco", models.CandidateApproved)
	approvedS := testutil.CreateTestCandidate(t, conn, speakerID, "Namono Ruth", models.CandidateApproved)
	pendingT := testutil.CreateTestCandidate(t, conn, treasurerID, "Pending Person", models.CandidateSubmitted)

	voterID := testutil.CreateTestVoter(t, conn, "M24B13/026", models.VoterVerified)
	token := testutil.CreateTestSession(t, conn, voterID)

	fullBallot := []models.VoteSelection{
		{PositionID: treasurerID, CandidateID: approvedT},
		{PositionID: speakerID, CandidateID: approvedS},
	}

	tests := []struct {
		name        string
		token       string
		votes       []models.VoteSelection
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "missing token",
			token:       "",
			votes:       fullBallot,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Session token is required",
		},
		{
			name:        "unknown token",
			token:       "tok_nope",
			votes:       fullBallot,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid session token",
		},
		{
			name:        "ballot missing a position",
			token:       token,
			votes:       fullBallot[:1],
			wantStatus:  http.StatusOK,
			wantMessage: "Ballot must cover every position exactly once",
		},
		{
			name:  "duplicate position",
			token: token,
			votes: []models.VoteSelection{
				{PositionID: treasurerID, CandidateID: approvedT},
				{PositionID: treasurerID, CandidateID: approvedT},
			},
			wantStatus:  http.StatusOK,
			wantMessage: "Ballot must cover every position exactly once",
		},
		{
			name:  "candidate standing for a different position",
			token: token,
			votes: []models.VoteSelection{
				{PositionID: treasurerID, CandidateID: approvedS},
				{PositionID: speakerID, CandidateID: approvedT},
			},
			wantStatus:  http.StatusOK,
			wantMessage: "Candidate is not standing for this position",
		},
		{
			name:  "unapproved candidate",
			token: token,
			votes: []models.VoteSelection{
				{PositionID: treasurerID, CandidateID: pendingT},
				{PositionID: speakerID, CandidateID: approvedS},
			},
			wantStatus:  http.StatusOK,
			wantMessage: "Candidate is not approved",
		},
		{
			name:        "valid full ballot",
			token:       token,
			votes:       fullBallot,
			wantStatus:  http.StatusOK,
			wantSuccess: true,
		},
		{
			name:        "second attempt rejected",
			token:       token,
			votes:       fullBallot,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid session token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.token != "" {
				headers["X-Session-Token"] = tt.token
			}
			req := testutil.MakeRequest("POST", "/api/ballots",
				models.SubmitBallotRequest{Votes: tt.votes}, headers)
			w := httptest.NewRecorder()

			handler.SubmitBallot(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)
			var resp models.Envelope
			testutil.AssertJSON(t, w, &resp)
			if resp.Success != tt.wantSuccess {
				t.Errorf("Expected success=%v, got %v (message %q)", tt.wantSuccess, resp.Success, resp.Message)
			}
			if tt.wantMessage != "" && resp.Message != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, resp.Message)
			}
		})
	}

	// After the valid ballot: votes recorded, voter VOTED, token retired
	var voteCount int
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote").Scan(&voteCount); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != 2 {
		t.Errorf("Expected 2 recorded votes, got %d", voteCount)
	}

	var status string
	if err := conn.QueryRow("SELECT status FROM voter WHERE id = $1", voterID).Scan(&status); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if status != models.VoterVoted {
		t.Errorf("Expected VOTED on the roll, got %s", status)
	}

	var sessions int
	if err := conn.QueryRow("SELECT COUNT(*) FROM voter_session WHERE token = $1", token).Scan(&sessions); err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if sessions != 0 {
		t.Error("Session token must be retired after casting")
	}
}

func TestSubmitBallotRejectedAtomically(t *testing.T) {
	// A ballot that fails validation must leave no partial votes behind.
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewBallotHandler(conn, cfg)

	treasurerID := testutil.CreateTestPosition(t, conn, "Treasurer")
	speakerID := testutil.CreateTestPosition(t, conn, "Speaker")
	approvedT := testutil.CreateTestCandidate(t, conn, treasurerID, "Okello Bosco", models.CandidateApproved)
	// Speaker has no approved candidate at all
	pendingS := testutil.CreateTestCandidate(t, conn, speakerID, "Pending Person", models.CandidateSubmitted)

	voterID := testutil.CreateTestVoter(t, conn, "M24B13/026", models.VoterVerified)
	token := testutil.CreateTestSession(t, conn, voterID)

	req := testutil.MakeRequest("POST", "/api/ballots", models.SubmitBallotRequest{
		Votes: []models.VoteSelection{
			{PositionID: treasurerID, CandidateID: approvedT},
			{PositionID: speakerID, CandidateID: pendingS},
		},
	}, map[string]string{"X-Session-Token": token})
	w := httptest.NewRecorder()
	handler.SubmitBallot(w, req)

	var resp models.Envelope
	testutil.AssertJSON(t, w, &resp)
	if resp.Success {
		t.Fatal("Expected the ballot to be rejected")
	}

	var voteCount int
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote").Scan(&voteCount); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != 0 {
		t.Errorf("Expected no votes after rejection, got %d", voteCount)
	}

	var status string
	if err := conn.QueryRow("SELECT status FROM voter WHERE id = $1", voterID).Scan(&status); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if status != models.VoterVerified {
		t.Errorf("Voter must stay VERIFIED after a rejected ballot, got %s", status)
	}
}
