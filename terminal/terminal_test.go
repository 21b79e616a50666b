// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package terminal

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkisa/guildvote/models"
	"github.com/mkisa/guildvote/remote"
	"github.com/mkisa/guildvote/service"
	"github.com/mkisa/guildvote/testutil"
)

// TestRunVoterJourney scripts a full check-in over pipes: the test plays
// the voter, reading the code off the screen like a real one would.
func TestRunVoterJourney(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	server := httptest.NewServer(service.NewRouter(conn, cfg))
	defer server.Close()

	positionID := testutil.CreateTestPosition(t, conn, "Treasurer")
	testutil.CreateTestCandidate(t, conn, positionID, "Okello Bosco", models.CandidateApproved)
	testutil.CreateTestVoter(t, conn, "M24B13/026", models.VoterEligible)

	inReader, inWriter := io.Pipe()
	outReader, outWriter := io.Pipe()

	client := remote.NewClient(server.URL, cfg.Timeout)
	term := New(client, inReader, outWriter)

	done := make(chan error, 1)
	go func() {
		err := term.RunVoter(context.Background())
		outWriter.Close()
		done <- err
	}()

	// Play the voter: identify, read the code off the screen, type it,
	// vote for candidate 1 in position 1, submit. Input writes run on
	// their own goroutines because io.Pipe has no buffer and the loop
	// must keep draining output.
	write := func(s string) { go io.WriteString(inWriter, s) }
	go func() {
		write("M24B13/026\n")
		scanner := bufio.NewScanner(outReader)
		for scanner.Scan() {
			if code, ok := strings.CutPrefix(scanner.Text(), "Your one-time code: "); ok {
				write(code + "\n1\n1\nsubmit\n")
			}
		}
	}()

	if err := <-done; err != nil {
		t.Fatalf("RunVoter() error = %v", err)
	}

	var status string
	if err := conn.QueryRow("SELECT status FROM voter WHERE reg_no = $1", "M24B13/026").Scan(&status); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if status != models.VoterVoted {
		t.Errorf("Expected VOTED after the journey, got %s", status)
	}
}

func TestRunCandidateFilesNomination(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	server := httptest.NewServer(service.NewRouter(conn, cfg))
	defer server.Close()

	testutil.CreateTestPosition(t, conn, "Treasurer")

	in := strings.NewReader("1\nOkello Bosco\nM24B13/050\nTransparent books.\n\n")
	var out bytes.Buffer
	term := New(remote.NewClient(server.URL, cfg.Timeout), in, &out)

	if err := term.RunCandidate(context.Background()); err != nil {
		t.Fatalf("RunCandidate() error = %v", err)
	}
	if !strings.Contains(out.String(), "status SUBMITTED") {
		t.Errorf("Expected submission confirmation, got:\n%s", out.String())
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM candidate WHERE reg_no = $1", "M24B13/050").Scan(&count); err != nil {
		t.Fatalf("Failed to count candidates: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected the nomination on record, got %d", count)
	}
}

func TestRunAdminBadKeySurfacesSoftFailure(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	server := httptest.NewServer(service.NewRouter(conn, cfg))
	defer server.Close()

	// Name, wrong key, one command that needs the key, quit
	in := strings.NewReader("Guild Admin\nwrong-key\nvoters\nquit\n")
	var out bytes.Buffer
	term := New(remote.NewClient(server.URL, cfg.Timeout), in, &out)

	if err := term.RunAdmin(context.Background()); err != nil {
		t.Fatalf("RunAdmin() error = %v", err)
	}
	if !strings.Contains(out.String(), "status 401") {
		t.Errorf("Expected the rejected key to surface, got:\n%s", out.String())
	}
}
