// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mkisa/guildvote/models"
	"github.com/mkisa/guildvote/remote"
)

// Phase constants. The voter moves ID → OTP → BALLOT → DONE; the only
// backward edge is the explicit Reset to ID.
const (
	PhaseID     = "ID"
	PhaseOTP    = "OTP"
	PhaseBallot = "BALLOT"
	PhaseDone   = "DONE"
)

var (
	ErrRegNoRequired    = errors.New("registration number is required")
	ErrCodeRequired     = errors.New("one-time code is required")
	ErrWrongPhase       = errors.New("operation not valid in current phase")
	ErrRequestInFlight  = errors.New("a request is already in flight")
	ErrIncompleteBallot = errors.New("every position needs exactly one choice")
	ErrUnknownPosition  = errors.New("position is not on this ballot")
	ErrUnknownCandidate = errors.New("candidate is not running for this position")
)

// msgSystemError is what the voter sees for any transport failure. The
// service's own messages pass through verbatim for soft failures.
const msgSystemError = "Something went wrong. Please try again."

// Service is the slice of the election service the voter flow needs.
// *remote.Client satisfies it.
type Service interface {
	RequestCode(ctx context.Context, regNo string) (string, error)
	VerifyCode(ctx context.Context, regNo, code string) (string, models.Voter, error)
	Positions(ctx context.Context) ([]models.Position, error)
	ApprovedCandidates(ctx context.Context) ([]models.Candidate, error)
	SubmitBallot(ctx context.Context, token string, votes []models.VoteSelection) error
}

// Snapshot is the point-in-time ballot: positions plus approved candidates,
// fetched once on entry to BALLOT and never refreshed mid-ballot.
type Snapshot struct {
	positions  []models.Position
	byPosition map[string][]models.Candidate
}

func newSnapshot(positions []models.Position, candidates []models.Candidate) *Snapshot {
	s := &Snapshot{
		positions:  positions,
		byPosition: make(map[string][]models.Candidate, len(positions)),
	}
	known := make(map[string]bool, len(positions))
	for _, p := range positions {
		known[p.ID] = true
	}
	for _, c := range candidates {
		// The service sends APPROVED candidates only; anything else, or a
		// candidate for a position not on the ballot, must not become
		// selectable.
		if c.Status != models.CandidateApproved || !known[c.PositionID] {
			continue
		}
		s.byPosition[c.PositionID] = append(s.byPosition[c.PositionID], c)
	}
	return s
}

func (s *Snapshot) hasPosition(positionID string) bool {
	for _, p := range s.positions {
		if p.ID == positionID {
			return true
		}
	}
	return false
}

func (s *Snapshot) runs(positionID, candidateID string) bool {
	for _, c := range s.byPosition[positionID] {
		if c.ID == candidateID {
			return true
		}
	}
	return false
}

// Flow drives one voter through verification and ballot casting. It owns
// the verification session and the selections exclusively; nothing else
// reads or mutates them. A Flow is safe for concurrent use, though the
// terminal drives it from a single goroutine - the locking exists so a
// duplicate submit can never issue two network calls.
type Flow struct {
	mu       sync.Mutex
	svc      Service
	phase    string
	inFlight bool

	regNo string
	code  string // one-time code held for on-screen display
	token string // present iff phase is BALLOT or DONE

	voter      models.Voter
	snapshot   *Snapshot
	selections map[string]string // position id -> candidate id
	lastErr    string
}

// New creates a flow at phase ID.
func New(svc Service) *Flow {
	return &Flow{svc: svc, phase: PhaseID}
}

// RequestVerification asks the service for a one-time code and, on success,
// moves to OTP. Legal from ID and from OTP (re-requesting overwrites the
// previous code). Failures never advance the phase.
func (f *Flow) RequestVerification(ctx context.Context, regNo string) error {
	regNo = strings.TrimSpace(regNo)
	if regNo == "" {
		f.mu.Lock()
		f.lastErr = "Registration number is required"
		f.mu.Unlock()
		return ErrRegNoRequired
	}

	f.mu.Lock()
	if f.phase != PhaseID && f.phase != PhaseOTP {
		f.mu.Unlock()
		return ErrWrongPhase
	}
	if f.inFlight {
		f.mu.Unlock()
		return ErrRequestInFlight
	}
	f.inFlight = true
	f.mu.Unlock()

	otp, err := f.svc.RequestCode(ctx, regNo)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if err != nil {
		f.lastErr = surface(err)
		return err
	}

	f.regNo = regNo
	f.code = otp
	f.phase = PhaseOTP
	f.lastErr = ""
	return nil
}

// VerifyCode exchanges the code for a session token, then fetches the
// election snapshot. Only when verification AND both fetches succeed does
// the flow reach BALLOT; any partial failure leaves it in OTP with the
// registration number preserved and no token held.
func (f *Flow) VerifyCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		f.mu.Lock()
		f.lastErr = "One-time code is required"
		f.mu.Unlock()
		return ErrCodeRequired
	}

	f.mu.Lock()
	if f.phase != PhaseOTP {
		f.mu.Unlock()
		return ErrWrongPhase
	}
	if f.inFlight {
		f.mu.Unlock()
		return ErrRequestInFlight
	}
	f.inFlight = true
	regNo := f.regNo
	f.mu.Unlock()

	token, voter, positions, candidates, err := f.verifyAndFetch(ctx, regNo, code)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if err != nil {
		f.lastErr = surface(err)
		return err
	}

	f.token = token
	f.voter = voter
	f.snapshot = newSnapshot(positions, candidates)
	f.selections = make(map[string]string)
	f.phase = PhaseBallot
	f.lastErr = ""
	return nil
}

func (f *Flow) verifyAndFetch(ctx context.Context, regNo, code string) (string, models.Voter, []models.Position, []models.Candidate, error) {
	token, voter, err := f.svc.VerifyCode(ctx, regNo, code)
	if err != nil {
		return "", models.Voter{}, nil, nil, err
	}
	positions, err := f.svc.Positions(ctx)
	if err != nil {
		return "", models.Voter{}, nil, nil, err
	}
	candidates, err := f.svc.ApprovedCandidates(ctx)
	if err != nil {
		return "", models.Voter{}, nil, nil, err
	}
	return token, voter, positions, candidates, nil
}

// Select records the voter's choice for a position, overwriting any prior
// choice for that position. Legal only in BALLOT.
func (f *Flow) Select(positionID, candidateID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != PhaseBallot {
		return ErrWrongPhase
	}
	if !f.snapshot.hasPosition(positionID) {
		return ErrUnknownPosition
	}
	if !f.snapshot.runs(positionID, candidateID) {
		return ErrUnknownCandidate
	}

	f.selections[positionID] = candidateID
	f.lastErr = ""
	return nil
}

// Complete reports whether every position has exactly one selection.
// Selection keys are always valid, distinct position ids, so a count match
// means full coverage. A position with no approved candidates can never be
// selected, which keeps the ballot permanently incomplete.
func (f *Flow) Complete() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completeLocked()
}

func (f *Flow) completeLocked() bool {
	if f.phase != PhaseBallot || f.snapshot == nil {
		return false
	}
	return len(f.snapshot.positions) > 0 && len(f.selections) == len(f.snapshot.positions)
}

// SubmitVote casts the ballot. At most one submit call is ever outstanding:
// a second attempt while one is in flight returns ErrRequestInFlight
// without touching the network. Success freezes the selections and moves
// to DONE; failure leaves phase and selections untouched for a retry.
func (f *Flow) SubmitVote(ctx context.Context) error {
	f.mu.Lock()
	if f.phase != PhaseBallot {
		f.mu.Unlock()
		return ErrWrongPhase
	}
	if f.inFlight {
		f.mu.Unlock()
		return ErrRequestInFlight
	}
	if !f.completeLocked() {
		f.lastErr = "Select a candidate for every position before submitting"
		f.mu.Unlock()
		return ErrIncompleteBallot
	}

	votes := make([]models.VoteSelection, 0, len(f.selections))
	for _, p := range f.snapshot.positions {
		votes = append(votes, models.VoteSelection{PositionID: p.ID, CandidateID: f.selections[p.ID]})
	}
	token := f.token
	f.inFlight = true
	f.mu.Unlock()

	err := f.svc.SubmitBallot(ctx, token, votes)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if err != nil {
		f.lastErr = surface(err)
		return err
	}

	f.phase = PhaseDone
	f.lastErr = ""
	return nil
}

// Reset returns the flow to ID, discarding the verification session, code,
// snapshot, and selections. This is the explicit OTP → ID edge for a voter
// restarting with a different registration number; it is legal from any
// phase so the machine stays total.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inFlight {
		return ErrRequestInFlight
	}

	f.phase = PhaseID
	f.regNo = ""
	f.code = ""
	f.token = ""
	f.voter = models.Voter{}
	f.snapshot = nil
	f.selections = nil
	f.lastErr = ""
	return nil
}

// Accessors. Each returns the zero value outside the phases that own the
// data, so no phase's state leaks into another.

func (f *Flow) Phase() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *Flow) RegNo() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseID {
		return ""
	}
	return f.regNo
}

// DisplayCode is the one-time code shown to the voter while entering it.
// Only meaningful in OTP.
func (f *Flow) DisplayCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseOTP {
		return ""
	}
	return f.code
}

// Token is present iff the flow is in BALLOT or DONE.
func (f *Flow) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseBallot && f.phase != PhaseDone {
		return ""
	}
	return f.token
}

func (f *Flow) Voter() models.Voter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseBallot && f.phase != PhaseDone {
		return models.Voter{}
	}
	return f.voter
}

// Positions lists the snapshot's positions in service order.
func (f *Flow) Positions() []models.Position {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshot == nil || (f.phase != PhaseBallot && f.phase != PhaseDone) {
		return nil
	}
	out := make([]models.Position, len(f.snapshot.positions))
	copy(out, f.snapshot.positions)
	return out
}

// Candidates lists the approved candidates running for a position.
func (f *Flow) Candidates(positionID string) []models.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshot == nil || (f.phase != PhaseBallot && f.phase != PhaseDone) {
		return nil
	}
	src := f.snapshot.byPosition[positionID]
	out := make([]models.Candidate, len(src))
	copy(out, src)
	return out
}

// Selections returns a copy of the current choices. After DONE the
// underlying map never changes again; the copy keeps it that way.
func (f *Flow) Selections() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.selections))
	for k, v := range f.selections {
		out[k] = v
	}
	return out
}

// Selected reports the current choice for a position.
func (f *Flow) Selected(positionID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.selections[positionID]
	return id, ok
}

// LastError is the message attached to the current phase, empty after any
// successful action.
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// surface maps an error to the message the voter sees: the service's own
// reason for soft failures, a generic retry message for transport failures.
func surface(err error) string {
	if msg, soft := remote.Reason(err); soft {
		return msg
	}
	return msgSystemError
}
