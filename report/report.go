// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/mkisa/guildvote/models"
)

// Positions renders the contested positions as an aligned table.
func Positions(positions []models.Position) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tSEATS\tSEMESTER\tCLOSES")
	for _, p := range positions {
		closes := "-"
		if !p.ClosesAt.IsZero() {
			closes = humanize.Time(p.ClosesAt)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", p.Name, p.Seats, p.Semester, closes)
	}
	w.Flush()
	return b.String()
}

// Candidates renders nominations with their review status. Rejected rows
// carry the officer's reason.
func Candidates(candidates []models.Candidate, positionNames map[string]string) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tREG NO\tPOSITION\tSTATUS\tFILED")
	for _, c := range candidates {
		position := positionNames[c.PositionID]
		if position == "" {
			position = c.PositionID
		}
		status := c.Status
		if c.Status == models.CandidateRejected && c.Reason != "" {
			status += " (" + c.Reason + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.RegNo, position, status, humanize.Time(c.CreatedAt))
	}
	w.Flush()
	return b.String()
}

// Voters renders the roll.
func Voters(voters []models.Voter) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "REG NO\tNAME\tPROGRAM\tSTATUS")
	for _, v := range voters {
		program := v.Program
		if program == "" {
			program = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.RegNo, v.Name, program, v.Status)
	}
	w.Flush()
	return b.String()
}

// AuditLog renders the trail newest-first, with relative timestamps.
func AuditLog(entries []models.AuditLogEntry) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "WHEN\tACTOR\tACTION\tDETAILS")
	for _, e := range entries {
		details := e.Details
		if details == "" {
			details = "-"
		}
		fmt.Fprintf(w, "%s\t%s/%s\t%s\t%s\n", humanize.Time(e.Timestamp), e.ActorType, e.ActorID, e.Action, details)
	}
	w.Flush()
	return b.String()
}

// Stats renders the turnout summary. Counts only; who won is not this
// program's question.
func Stats(stats models.Stats, candidateNames map[string]string) string {
	var b strings.Builder

	turnout := "n/a"
	if stats.TotalVoters > 0 {
		turnout = fmt.Sprintf("%.1f%%", 100*float64(stats.VotedVoters)/float64(stats.TotalVoters))
	}
	fmt.Fprintf(&b, "Voters on roll:  %s\n", humanize.Comma(int64(stats.TotalVoters)))
	fmt.Fprintf(&b, "Voted:           %s (%s turnout)\n", humanize.Comma(int64(stats.VotedVoters)), turnout)
	fmt.Fprintf(&b, "Blocked:         %s\n", humanize.Comma(int64(stats.BlockedVoters)))
	fmt.Fprintf(&b, "Positions:       %s\n", humanize.Comma(int64(stats.TotalPositions)))
	fmt.Fprintf(&b, "Votes recorded:  %s\n", humanize.Comma(int64(stats.TotalBallots)))

	if len(stats.VotesByOption) > 0 {
		fmt.Fprintln(&b)
		w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CANDIDATE\tVOTES")
		for id, count := range stats.VotesByOption {
			name := candidateNames[id]
			if name == "" {
				name = id
			}
			fmt.Fprintf(w, "%s\t%s\n", name, humanize.Comma(int64(count)))
		}
		w.Flush()
	}

	return b.String()
}

// WriteVotersCSV exports the roll in the same column order the import
// endpoint accepts, so an export can round-trip.
func WriteVotersCSV(w io.Writer, voters []models.Voter) error {
	cw := csv.NewWriter(w)
	for _, v := range voters {
		if err := cw.Write([]string{v.RegNo, v.Name, v.Email, v.Program}); err != nil {
			return fmt.Errorf("failed to write voter row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatsCSV exports per-candidate counts as candidate_id,votes rows.
func WriteStatsCSV(w io.Writer, stats models.Stats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"candidate_id", "votes"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for id, count := range stats.VotesByOption {
		if err := cw.Write([]string{id, strconv.Itoa(count)}); err != nil {
			return fmt.Errorf("failed to write stats row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
