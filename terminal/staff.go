// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package terminal

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/mkisa/guildvote/guard"
	"github.com/mkisa/guildvote/models"
	"github.com/mkisa/guildvote/report"
)

// RunAdmin is the admin dashboard loop: positions, the voter roll, the
// audit trail, stats, and the demo levers (reset, load test).
func (t *Terminal) RunAdmin(ctx context.Context) error {
	user, key, ok := t.loginStaff(models.RoleAdmin)
	if !ok {
		return nil
	}
	if d := guard.Check(&user, models.RoleAdmin); !d.Allowed {
		t.printf("Not allowed here; go to %s\n", d.Redirect)
		return nil
	}
	defer t.session.Logout()

	t.printf("Admin dashboard. Commands: positions, newpos, voters, addvoter, import, block, unblock, audit, stats, export, loadtest, reset, quit\n")
	for {
		cmd, ok := t.prompt("admin")
		if !ok || cmd == "quit" {
			return nil
		}

		switch cmd {
		case "positions":
			positions, err := t.client.Positions(ctx)
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("%s", report.Positions(positions))

		case "newpos":
			req := models.CreatePositionRequest{Seats: 1}
			req.Name, _ = t.prompt("Position name")
			req.Seats = t.promptInt("Seats", 1)
			req.Semester, _ = t.prompt("Semester (Advent/Trinity/Easter)")
			req.EligibilityRules, _ = t.prompt("Eligibility rules (optional)")
			position, err := t.client.CreatePosition(ctx, key, req)
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("Created %s (%s)\n", position.Name, position.ID)

		case "voters":
			voters, err := t.client.Voters(ctx, key)
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("%s", report.Voters(voters))

		case "addvoter":
			var req models.AddVoterRequest
			req.RegNo, _ = t.prompt("Registration number")
			req.Name, _ = t.prompt("Name")
			req.Email, _ = t.prompt("Email (optional)")
			req.Program, _ = t.prompt("Program (optional)")
			if err := t.client.AddVoter(ctx, key, req); err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("Added %s\n", req.RegNo)

		case "import":
			path, _ := t.prompt("CSV file (regNo,name,email,program)")
			file, err := os.Open(path)
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			imported, skipped, err := t.client.ImportVoters(ctx, key, file)
			file.Close()
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("Imported %d, skipped %d\n", imported, skipped)

		case "block", "unblock":
			status := models.VoterBlocked
			if cmd == "unblock" {
				status = models.VoterEligible
			}
			voterID, _ := t.prompt("Voter id")
			if err := t.client.UpdateVoterStatus(ctx, key, voterID, status); err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("Voter %s is now %s\n", voterID, status)

		case "audit":
			entries, err := t.client.AuditLog(ctx, key)
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("%s", report.AuditLog(entries))

		case "stats":
			t.showStats(ctx, key)

		case "export":
			voters, err := t.client.Voters(ctx, key)
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			path, _ := t.prompt("Output file")
			file, err := os.Create(path)
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			err = report.WriteVotersCSV(file, voters)
			file.Close()
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("Wrote %d voters to %s\n", len(voters), path)

		case "loadtest":
			n := t.promptInt("Concurrent verification requests", 10)
			regNo, _ := t.prompt("Registration number to hammer")
			t.loadTest(ctx, n, regNo)

		case "reset":
			confirm, _ := t.prompt("Type RESET to wipe everything")
			if confirm != "RESET" {
				t.printf("Cancelled\n")
				continue
			}
			if err := t.client.ResetSystem(ctx, key); err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("System reset\n")

		default:
			t.printf("Unknown command %q\n", cmd)
		}
	}
}

func (t *Terminal) showStats(ctx context.Context, key string) {
	stats, err := t.client.Stats(ctx, key)
	if err != nil {
		t.printf("%s\n", err)
		return
	}
	names := map[string]string{}
	if candidates, err := t.client.Candidates(ctx, key); err == nil {
		for _, c := range candidates {
			names[c.ID] = c.Name
		}
	}
	t.printf("%s", report.Stats(stats, names))
}

// loadTest fires n concurrent code requests and reports the latency
// spread. Useful for checking the service holds up on election morning.
func (t *Terminal) loadTest(ctx context.Context, n int, regNo string) {
	if n < 1 {
		n = 1
	}

	durations := make([]time.Duration, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			began := time.Now()
			_, errs[i] = t.client.RequestCode(ctx, regNo)
			durations[i] = time.Since(began)
		}(i)
	}
	wg.Wait()
	total := time.Since(start)

	var min, max, sum time.Duration
	failures := 0
	for i, d := range durations {
		if i == 0 || d < min {
			min = d
		}
		if d > max {
			max = d
		}
		sum += d
		if errs[i] != nil {
			failures++
		}
	}

	t.printf("%d requests in %s: min %s, avg %s, max %s, %d failed\n",
		n, total.Round(time.Millisecond),
		min.Round(time.Millisecond),
		(sum / time.Duration(n)).Round(time.Millisecond),
		max.Round(time.Millisecond),
		failures)
}

// RunOfficer is the returning officer's loop: review nominations.
func (t *Terminal) RunOfficer(ctx context.Context) error {
	user, key, ok := t.loginStaff(models.RoleOfficer)
	if !ok {
		return nil
	}
	if d := guard.Check(&user, models.RoleAdmin, models.RoleOfficer); !d.Allowed {
		t.printf("Not allowed here; go to %s\n", d.Redirect)
		return nil
	}
	defer t.session.Logout()

	t.printf("Officer dashboard. Commands: pending, all, approve, reject, stats, quit\n")
	for {
		cmd, ok := t.prompt("officer")
		if !ok || cmd == "quit" {
			return nil
		}

		switch cmd {
		case "pending", "all":
			candidates, err := t.client.Candidates(ctx, key)
			if err != nil {
				t.printf("%s\n", err)
				continue
			}
			if cmd == "pending" {
				filtered := candidates[:0]
				for _, c := range candidates {
					if c.Status == models.CandidateSubmitted {
						filtered = append(filtered, c)
					}
				}
				candidates = filtered
			}
			t.printf("%s", report.Candidates(candidates, t.positionNames(ctx)))

		case "approve":
			id, _ := t.prompt("Candidate id")
			if err := t.client.UpdateCandidateStatus(ctx, key, id, models.CandidateApproved, ""); err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("Approved %s\n", id)

		case "reject":
			id, _ := t.prompt("Candidate id")
			reason, _ := t.prompt("Reason")
			if err := t.client.UpdateCandidateStatus(ctx, key, id, models.CandidateRejected, reason); err != nil {
				t.printf("%s\n", err)
				continue
			}
			t.printf("Rejected %s\n", id)

		case "stats":
			t.showStats(ctx, key)

		default:
			t.printf("Unknown command %q\n", cmd)
		}
	}
}

// RunCandidate files one nomination and reports the outcome.
func (t *Terminal) RunCandidate(ctx context.Context) error {
	t.printf("Nomination form\n")

	positions, err := t.client.Positions(ctx)
	if err != nil {
		t.printf("%s\n", err)
		return nil
	}
	if len(positions) == 0 {
		t.printf("No positions are open for nomination.\n")
		return nil
	}
	for i, p := range positions {
		t.printf("  %d. %s (%s)\n", i+1, p.Name, p.Semester)
	}

	idx := t.promptInt("Position number", 1)
	if idx < 1 || idx > len(positions) {
		t.printf("No such position.\n")
		return nil
	}

	var req models.SubmitNominationRequest
	req.PositionID = positions[idx-1].ID
	req.Name, _ = t.prompt("Full name")
	req.RegNo, _ = t.prompt("Registration number")
	req.Manifesto, _ = t.prompt("Manifesto")
	req.PhotoURL, _ = t.prompt("Photo URL (optional)")

	candidate, err := t.client.SubmitNomination(ctx, req)
	if err != nil {
		t.printf("%s\n", err)
		return nil
	}
	t.printf("Nomination filed for %s; status %s. The returning officer will review it.\n",
		positions[idx-1].Name, candidate.Status)
	return nil
}

func (t *Terminal) positionNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	if positions, err := t.client.Positions(ctx); err == nil {
		for _, p := range positions {
			names[p.ID] = p.Name
		}
	}
	return names
}
