package service

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/mkisa/guildvote/flow"
	"github.com/mkisa/guildvote/models"
	"github.com/mkisa/guildvote/remote"
	"github.com/mkisa/guildvote/testutil"
)

// TestVoterJourney walks a voter through the whole election stack: the
// real HTTP client against the real service over a live listener, driven
// by the ballot state machine. No fakes anywhere.
func TestVoterJourney(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	server := httptest.NewServer(NewRouter(conn, cfg))
	defer server.Close()

	positionID := testutil.CreateTestPosition(t, conn, "Treasurer")
	candidateID := testutil.CreateTestCandidate(t, conn, positionID, "Okello Bosco", models.CandidateApproved)
	testutil.CreateTestVoter(t, conn, "M24B13/026", models.VoterEligible)

	client := remote.NewClient(server.URL, cfg.Timeout)
	f := flow.New(client)
	ctx := context.Background()

	// Identification
	if err := f.RequestVerification(ctx, "M24B13/026"); err != nil {
		t.Fatalf("RequestVerification() error = %v (last error %q)", err, f.LastError())
	}
	if f.Phase() != flow.PhaseOTP {
		t.Fatalf("Phase() = %s, want OTP", f.Phase())
	}
	code := f.DisplayCode()
	if len(code) != 6 {
		t.Fatalf("DisplayCode() = %q, want a 6-digit code", code)
	}

	// A wrong code is a soft failure and does not advance
	if err := f.VerifyCode(ctx, "000000"); err == nil {
		t.Fatal("expected the wrong code to fail")
	}
	if f.Phase() != flow.PhaseOTP || f.LastError() != "Invalid OTP" {
		t.Fatalf("after wrong code: phase %s, last error %q", f.Phase(), f.LastError())
	}

	// The right code reaches the ballot
	if err := f.VerifyCode(ctx, code); err != nil {
		t.Fatalf("VerifyCode() error = %v (last error %q)", err, f.LastError())
	}
	if f.Phase() != flow.PhaseBallot {
		t.Fatalf("Phase() = %s, want BALLOT", f.Phase())
	}
	if f.Token() == "" {
		t.Fatal("expected a session token in BALLOT")
	}

	positions := f.Positions()
	if len(positions) != 1 || positions[0].ID != positionID {
		t.Fatalf("Positions() = %+v, want the seeded Treasurer position", positions)
	}
	candidates := f.Candidates(positionID)
	if len(candidates) != 1 || candidates[0].ID != candidateID {
		t.Fatalf("Candidates() = %+v, want the approved candidate", candidates)
	}

	// Selection and casting
	if err := f.Select(positionID, candidateID); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !f.Complete() {
		t.Fatal("Complete() = false with every position selected")
	}
	if err := f.SubmitVote(ctx); err != nil {
		t.Fatalf("SubmitVote() error = %v (last error %q)", err, f.LastError())
	}
	if f.Phase() != flow.PhaseDone {
		t.Fatalf("Phase() = %s, want DONE", f.Phase())
	}

	// The service agrees: vote recorded, roll updated
	var voteCount int
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote WHERE candidate_id = $1", candidateID).Scan(&voteCount); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != 1 {
		t.Errorf("Expected 1 recorded vote, got %d", voteCount)
	}

	var status string
	if err := conn.QueryRow("SELECT status FROM voter WHERE reg_no = $1", "M24B13/026").Scan(&status); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if status != models.VoterVoted {
		t.Errorf("Expected VOTED on the roll, got %s", status)
	}

	// A second journey for the same voter stops at the first step
	second := flow.New(client)
	if err := second.RequestVerification(ctx, "M24B13/026"); err == nil {
		t.Fatal("expected the second journey to be refused")
	}
	if second.LastError() != "Already voted" {
		t.Errorf("LastError() = %q, want Already voted", second.LastError())
	}
	if second.Phase() != flow.PhaseID {
		t.Errorf("Phase() = %s, want ID", second.Phase())
	}
}

// TestStaffJourney exercises the staff surface through the HTTP client:
// admin seeds the election, a candidate nominates, the officer approves.
func TestStaffJourney(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	server := httptest.NewServer(NewRouter(conn, cfg))
	defer server.Close()

	client := remote.NewClient(server.URL, cfg.Timeout)
	ctx := context.Background()
	adminKey := testutil.StaffKey(models.RoleAdmin)
	officerKey := testutil.StaffKey(models.RoleOfficer)

	if err := client.Health(ctx); err != nil {
		t.Fatalf("Health() error = %v", err)
	}

	position, err := client.CreatePosition(ctx, adminKey, models.CreatePositionRequest{
		Name:     "Treasurer",
		Seats:    1,
		Semester: models.SemesterTrinity,
	})
	if err != nil {
		t.Fatalf("CreatePosition() error = %v", err)
	}

	// Renaming the position mid-setup round-trips through the update path
	if err := client.UpdatePosition(ctx, adminKey, position.ID, models.CreatePositionRequest{
		Name:     "Guild Treasurer",
		Seats:    1,
		Semester: models.SemesterTrinity,
	}); err != nil {
		t.Fatalf("UpdatePosition() error = %v", err)
	}
	positions, err := client.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions() error = %v", err)
	}
	if len(positions) != 1 || positions[0].Name != "Guild Treasurer" {
		t.Fatalf("Positions() = %+v, want the renamed position", positions)
	}

	if err := client.AddVoter(ctx, adminKey, models.AddVoterRequest{
		RegNo: "M24B13/026",
		Name:  "Achen Grace",
	}); err != nil {
		t.Fatalf("AddVoter() error = %v", err)
	}

	candidate, err := client.SubmitNomination(ctx, models.SubmitNominationRequest{
		PositionID: position.ID,
		Name:       "Okello Bosco",
		RegNo:      "M24B13/050",
		Manifesto:  "Transparent books.",
	})
	if err != nil {
		t.Fatalf("SubmitNomination() error = %v", err)
	}
	if candidate.Status != models.CandidateSubmitted {
		t.Fatalf("nomination status = %s, want SUBMITTED", candidate.Status)
	}

	// Wrong key cannot decide nominations
	err = client.UpdateCandidateStatus(ctx, "bad-key", candidate.ID, models.CandidateApproved, "")
	if msg, soft := remote.Reason(err); !soft || msg != "Invalid staff key" {
		t.Fatalf("expected Invalid staff key, got %v", err)
	}

	if err := client.UpdateCandidateStatus(ctx, officerKey, candidate.ID, models.CandidateApproved, ""); err != nil {
		t.Fatalf("UpdateCandidateStatus() error = %v", err)
	}

	approved, err := client.ApprovedCandidates(ctx)
	if err != nil {
		t.Fatalf("ApprovedCandidates() error = %v", err)
	}
	if len(approved) != 1 || approved[0].ID != candidate.ID {
		t.Fatalf("ApprovedCandidates() = %+v, want the approved nomination", approved)
	}

	voters, err := client.Voters(ctx, adminKey)
	if err != nil {
		t.Fatalf("Voters() error = %v", err)
	}
	if len(voters) != 1 || voters[0].RegNo != "M24B13/026" {
		t.Fatalf("Voters() = %+v, want the added voter", voters)
	}

	stats, err := client.Stats(ctx, adminKey)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalVoters != 1 || stats.TotalPositions != 1 {
		t.Errorf("Stats() = %+v, want 1 voter and 1 position", stats)
	}

	entries, err := client.AuditLog(ctx, adminKey)
	if err != nil {
		t.Fatalf("AuditLog() error = %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected audit entries after staff activity")
	}

	if err := client.ResetSystem(ctx, adminKey); err != nil {
		t.Fatalf("ResetSystem() error = %v", err)
	}
	voters, err = client.Voters(ctx, adminKey)
	if err != nil {
		t.Fatalf("Voters() after reset error = %v", err)
	}
	if len(voters) != 0 {
		t.Errorf("Voters() after reset = %+v, want empty", voters)
	}
}
