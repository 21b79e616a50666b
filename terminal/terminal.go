// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/mkisa/guildvote/flow"
	"github.com/mkisa/guildvote/models"
	"github.com/mkisa/guildvote/remote"
	"github.com/mkisa/guildvote/session"
)

// Terminal is one interactive surface: a reader for commands, a writer
// for output, a client for the election service, and its own session.
type Terminal struct {
	in      *bufio.Scanner
	out     io.Writer
	client  *remote.Client
	session *session.Holder

	// interactive controls prompts; piped input gets bare line-mode
	interactive bool
}

func New(client *remote.Client, in io.Reader, out io.Writer) *Terminal {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Terminal{
		in:          bufio.NewScanner(in),
		out:         out,
		client:      client,
		session:     session.New(),
		interactive: interactive,
	}
}

// prompt prints the prompt (TTY only) and reads one trimmed line.
// Returns false when input is exhausted.
func (t *Terminal) prompt(label string) (string, bool) {
	if t.interactive {
		fmt.Fprintf(t.out, "%s: ", label)
	}
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

func (t *Terminal) promptInt(label string, fallback int) int {
	line, ok := t.prompt(label)
	if !ok || line == "" {
		return fallback
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintf(t.out, "Not a number, using %d\n", fallback)
		return fallback
	}
	return n
}

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// RunVoter drives the full voter journey: identification, code entry,
// ballot, confirmation. The state machine owns all election state; this
// loop only translates lines to operations and phases to screens.
func (t *Terminal) RunVoter(ctx context.Context) error {
	f := flow.New(t.client)
	t.printf("Guild election - voter check-in\n")

	for {
		switch f.Phase() {
		case flow.PhaseID:
			regNo, ok := t.prompt("Registration number (or 'quit')")
			if !ok || regNo == "quit" {
				return nil
			}
			if err := f.RequestVerification(ctx, regNo); err != nil {
				t.printf("%s\n", f.LastError())
				continue
			}
			t.printf("Your one-time code: %s\n", f.DisplayCode())

		case flow.PhaseOTP:
			code, ok := t.prompt("Enter code ('back' to restart)")
			if !ok {
				return nil
			}
			if code == "back" {
				if err := f.Reset(); err != nil {
					t.printf("%s\n", err)
				}
				continue
			}
			if err := f.VerifyCode(ctx, code); err != nil {
				t.printf("%s\n", f.LastError())
				continue
			}
			t.printf("Welcome, %s.\n", f.Voter().Name)

		case flow.PhaseBallot:
			if err := t.runBallot(ctx, f); err != nil {
				return err
			}
			if f.Phase() == flow.PhaseBallot {
				// runBallot returned without casting: quit
				return nil
			}

		case flow.PhaseDone:
			t.printf("\nYour ballot has been cast:\n")
			for _, p := range f.Positions() {
				if id, ok := f.Selected(p.ID); ok {
					t.printf("  %s: %s\n", p.Name, t.candidateName(f, p.ID, id))
				}
			}
			t.printf("Thank you for voting.\n")
			return nil
		}
	}
}

// runBallot is the selection screen. It returns with the flow either in
// DONE (ballot cast) or still in BALLOT (voter quit).
func (t *Terminal) runBallot(ctx context.Context, f *flow.Flow) error {
	for f.Phase() == flow.PhaseBallot {
		positions := f.Positions()
		t.printf("\nBallot (%d positions):\n", len(positions))
		for i, p := range positions {
			mark := " "
			chosen := ""
			if id, ok := f.Selected(p.ID); ok {
				mark = "x"
				chosen = " -> " + t.candidateName(f, p.ID, id)
			}
			t.printf("  [%s] %d. %s%s\n", mark, i+1, p.Name, chosen)
		}

		line, ok := t.prompt("Position number to vote, 'submit', or 'quit'")
		if !ok || line == "quit" {
			return nil
		}
		if line == "submit" {
			if !f.Complete() {
				t.printf("Select a candidate for every position first.\n")
				continue
			}
			if err := f.SubmitVote(ctx); err != nil {
				t.printf("%s\n", f.LastError())
			}
			continue
		}

		idx, err := strconv.Atoi(line)
		if err != nil || idx < 1 || idx > len(positions) {
			t.printf("Pick a position number between 1 and %d.\n", len(positions))
			continue
		}
		position := positions[idx-1]

		candidates := f.Candidates(position.ID)
		if len(candidates) == 0 {
			t.printf("No approved candidates for %s; this ballot cannot be completed yet.\n", position.Name)
			continue
		}
		for i, c := range candidates {
			t.printf("  %d. %s\n", i+1, c.Name)
		}
		line, ok = t.prompt("Candidate number")
		if !ok {
			return nil
		}
		cidx, err := strconv.Atoi(line)
		if err != nil || cidx < 1 || cidx > len(candidates) {
			t.printf("Pick a candidate number between 1 and %d.\n", len(candidates))
			continue
		}
		if err := f.Select(position.ID, candidates[cidx-1].ID); err != nil {
			t.printf("%s\n", err)
		}
	}
	return nil
}

func (t *Terminal) candidateName(f *flow.Flow, positionID, candidateID string) string {
	for _, c := range f.Candidates(positionID) {
		if c.ID == candidateID {
			return c.Name
		}
	}
	return candidateID
}

// loginStaff signs a staff member in: name plus the role's access key.
// The key is only checked server-side; a wrong key surfaces as a soft
// failure on the first dashboard call.
func (t *Terminal) loginStaff(role string) (models.User, string, bool) {
	name, ok := t.prompt("Your name")
	if !ok {
		return models.User{}, "", false
	}
	key, ok := t.prompt("Staff access key")
	if !ok {
		return models.User{}, "", false
	}
	user, err := t.session.Login(role, name, key)
	if err != nil {
		t.printf("%s\n", err)
		return models.User{}, "", false
	}
	return user, key, true
}
