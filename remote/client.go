// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkisa/guildvote/models"
)

// Client talks to the election service. It is the single seam between the
// terminal (voter flow and staff dashboards) and the backend; every method
// either returns a typed payload, a *ServiceError carrying the service's
// reason, or a transport error.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL. timeout bounds
// every request; a hung call resolves to a transport failure instead of
// hanging the caller.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Voter operations

// RequestCode asks the service to issue a one-time code for the
// registration number. The code comes back in-band for on-screen display.
func (c *Client) RequestCode(ctx context.Context, regNo string) (string, error) {
	var resp models.RequestCodeResponse
	err := c.post(ctx, "/api/verify/request", nil, models.RequestCodeRequest{RegNo: regNo}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &ServiceError{Message: orDefault(resp.Message, "verification request rejected")}
	}
	if resp.OTP == "" {
		return "", fmt.Errorf("election service returned success without a code")
	}
	return resp.OTP, nil
}

// VerifyCode exchanges the (regNo, code) pair for a session token and the
// voter's roll record.
func (c *Client) VerifyCode(ctx context.Context, regNo, code string) (string, models.Voter, error) {
	var resp models.VerifyCodeResponse
	err := c.post(ctx, "/api/verify/confirm", nil, models.VerifyCodeRequest{RegNo: regNo, Code: code}, &resp)
	if err != nil {
		return "", models.Voter{}, err
	}
	if !resp.Success {
		return "", models.Voter{}, &ServiceError{Message: orDefault(resp.Message, "verification rejected")}
	}
	if resp.Token == "" || resp.Voter == nil {
		return "", models.Voter{}, fmt.Errorf("election service returned success without token or voter")
	}
	return resp.Token, *resp.Voter, nil
}

// Positions fetches the contested positions for the current election.
func (c *Client) Positions(ctx context.Context) ([]models.Position, error) {
	var positions []models.Position
	if err := c.get(ctx, "/api/positions", nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// ApprovedCandidates fetches candidates already filtered to APPROVED.
func (c *Client) ApprovedCandidates(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	q := url.Values{"status": {models.CandidateApproved}}
	if err := c.get(ctx, "/api/candidates?"+q.Encode(), nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// SubmitBallot casts the full ballot under the verified session token.
func (c *Client) SubmitBallot(ctx context.Context, token string, votes []models.VoteSelection) error {
	var resp models.Envelope
	headers := map[string]string{"X-Session-Token": token}
	err := c.post(ctx, "/api/ballots", headers, models.SubmitBallotRequest{Votes: votes}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return &ServiceError{Message: orDefault(resp.Message, "ballot rejected")}
	}
	return nil
}

// Candidate operations

// SubmitNomination files a candidate nomination (status starts SUBMITTED).
func (c *Client) SubmitNomination(ctx context.Context, req models.SubmitNominationRequest) (models.Candidate, error) {
	var resp struct {
		models.Envelope
		Candidate *models.Candidate `json:"candidate,omitempty"`
	}
	err := c.post(ctx, "/api/nominations", nil, req, &resp)
	if err != nil {
		return models.Candidate{}, err
	}
	if !resp.Success {
		return models.Candidate{}, &ServiceError{Message: orDefault(resp.Message, "nomination rejected")}
	}
	if resp.Candidate == nil {
		return models.Candidate{}, fmt.Errorf("election service returned success without candidate")
	}
	return *resp.Candidate, nil
}

// Staff operations. Each takes the caller's staff access key.

func (c *Client) Candidates(ctx context.Context, staffKey string) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := c.get(ctx, "/api/candidates", staffHeader(staffKey), &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (c *Client) UpdateCandidateStatus(ctx context.Context, staffKey, candidateID, status, reason string) error {
	req := models.UpdateCandidateStatusRequest{Status: status, Reason: reason}
	return c.envelopePut(ctx, "/api/candidates/"+candidateID+"/status", staffHeader(staffKey), req)
}

func (c *Client) CreatePosition(ctx context.Context, staffKey string, req models.CreatePositionRequest) (models.Position, error) {
	var resp struct {
		models.Envelope
		Position *models.Position `json:"position,omitempty"`
	}
	err := c.post(ctx, "/api/positions", staffHeader(staffKey), req, &resp)
	if err != nil {
		return models.Position{}, err
	}
	if !resp.Success {
		return models.Position{}, &ServiceError{Message: orDefault(resp.Message, "position rejected")}
	}
	if resp.Position == nil {
		return models.Position{}, fmt.Errorf("election service returned success without position")
	}
	return *resp.Position, nil
}

func (c *Client) UpdatePosition(ctx context.Context, staffKey, positionID string, req models.CreatePositionRequest) error {
	return c.envelopePut(ctx, "/api/positions/"+positionID, staffHeader(staffKey), req)
}

func (c *Client) Voters(ctx context.Context, staffKey string) ([]models.Voter, error) {
	var voters []models.Voter
	if err := c.get(ctx, "/api/voters", staffHeader(staffKey), &voters); err != nil {
		return nil, err
	}
	return voters, nil
}

func (c *Client) AddVoter(ctx context.Context, staffKey string, req models.AddVoterRequest) error {
	var resp models.Envelope
	err := c.post(ctx, "/api/voters", staffHeader(staffKey), req, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return &ServiceError{Message: orDefault(resp.Message, "voter rejected")}
	}
	return nil
}

// ImportVoters bulk-loads the roll from CSV (regNo,name,email,program).
func (c *Client) ImportVoters(ctx context.Context, staffKey string, csv io.Reader) (imported, skipped int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/voters/import", csv)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build import request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-Staff-Key", staffKey)

	var resp models.ImportVotersResponse
	if err := c.send(req, &resp); err != nil {
		return 0, 0, err
	}
	if !resp.Success {
		return 0, 0, &ServiceError{Message: orDefault(resp.Message, "import rejected")}
	}
	return resp.Imported, resp.Skipped, nil
}

func (c *Client) UpdateVoterStatus(ctx context.Context, staffKey, voterID, status string) error {
	req := models.UpdateVoterStatusRequest{Status: status}
	return c.envelopePut(ctx, "/api/voters/"+voterID+"/status", staffHeader(staffKey), req)
}

func (c *Client) AuditLog(ctx context.Context, staffKey string) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	if err := c.get(ctx, "/api/audit", staffHeader(staffKey), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) Stats(ctx context.Context, staffKey string) (models.Stats, error) {
	var stats models.Stats
	if err := c.get(ctx, "/api/stats", staffHeader(staffKey), &stats); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

// ResetSystem wipes the election state. Demo tool; audit-logged server-side.
func (c *Client) ResetSystem(ctx context.Context, staffKey string) error {
	var resp models.Envelope
	err := c.post(ctx, "/api/reset", staffHeader(staffKey), struct{}{}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return &ServiceError{Message: orDefault(resp.Message, "reset rejected")}
	}
	return nil
}

// Health reports whether the service answers at all.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("election service unreachable: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("election service unhealthy: status %d", res.StatusCode)
	}
	return nil
}

// Request plumbing

func (c *Client) post(ctx context.Context, path string, headers map[string]string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.send(req, out)
}

func (c *Client) put(ctx context.Context, path string, headers map[string]string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.send(req, out)
}

// envelopePut is a PUT whose response carries only the success envelope.
func (c *Client) envelopePut(ctx context.Context, path string, headers map[string]string, in any) error {
	var resp models.Envelope
	if err := c.put(ctx, path, headers, in, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &ServiceError{Message: orDefault(resp.Message, "update rejected")}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("election service unreachable: %w", err)
	}
	defer res.Body.Close()

	// GET endpoints have no soft-failure channel in the contract; any
	// non-OK answer is a transport failure.
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("election service error: status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response from election service: %w", err)
	}
	return nil
}

// send executes the request and decodes the envelope-bearing response.
// 5xx and undecodable bodies are transport failures; anything the service
// decoded for us is handed to the caller, which inspects the envelope.
func (c *Client) send(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("election service unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("election service error: status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response from election service: %w", err)
	}
	return nil
}

func staffHeader(key string) map[string]string {
	return map[string]string{"X-Staff-Key": key}
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
