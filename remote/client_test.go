// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkisa/guildvote/models"
)

func TestRequestCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantOTP  string
		wantSoft string // expected ServiceError message, "" for none
		wantErr  bool
	}{
		{
			name: "success carries the code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"success":true,"otp":"482913"}`))
			},
			wantOTP: "482913",
		},
		{
			name: "service refusal is a soft failure with its message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"success":false,"message":"Registration number not found"}`))
			},
			wantSoft: "Registration number not found",
			wantErr:  true,
		},
		{
			name: "5xx is a transport failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: true,
		},
		{
			name: "garbage body is a transport failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
			wantErr: true,
		},
		{
			name: "success without a code is a transport failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"success":true}`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			otp, err := client.RequestCode(context.Background(), "M24B13/026")

			if (err != nil) != tt.wantErr {
				t.Fatalf("RequestCode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if otp != tt.wantOTP {
				t.Errorf("RequestCode() = %q, want %q", otp, tt.wantOTP)
			}

			msg, soft := Reason(err)
			if (tt.wantSoft != "") != soft {
				t.Errorf("Reason() soft = %v, want %v (err %v)", soft, tt.wantSoft != "", err)
			}
			if tt.wantSoft != "" && msg != tt.wantSoft {
				t.Errorf("Reason() = %q, want %q", msg, tt.wantSoft)
			}
		})
	}
}

func TestGetEndpointsHaveNoSoftChannel(t *testing.T) {
	// A non-200 on a list endpoint must never look like a service refusal.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Positions(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, soft := Reason(err); soft {
		t.Errorf("GET failure classified as soft: %v", err)
	}
}

func TestUnreachableServiceIsTransport(t *testing.T) {
	// Nothing is listening here
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)

	err := client.SubmitBallot(context.Background(), "tok_abc", []models.VoteSelection{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, soft := Reason(err); soft {
		t.Errorf("connection failure classified as soft: %v", err)
	}
}

func TestSubmitBallotSendsTokenAndVotes(t *testing.T) {
	var gotToken string
	var gotBody models.SubmitBallotRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Session-Token")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	votes := []models.VoteSelection{{PositionID: "p1", CandidateID: "c1"}}
	if err := client.SubmitBallot(context.Background(), "tok_abc", votes); err != nil {
		t.Fatalf("SubmitBallot() error = %v", err)
	}

	if gotToken != "tok_abc" {
		t.Errorf("X-Session-Token = %q, want tok_abc", gotToken)
	}
	if len(gotBody.Votes) != 1 || gotBody.Votes[0] != votes[0] {
		t.Errorf("body votes = %+v, want %+v", gotBody.Votes, votes)
	}
}

func TestReason(t *testing.T) {
	soft := &ServiceError{Message: "Already voted"}
	wrapped := errors.Join(errors.New("context"), soft)

	if msg, ok := Reason(soft); !ok || msg != "Already voted" {
		t.Errorf("Reason(soft) = %q, %v", msg, ok)
	}
	if msg, ok := Reason(wrapped); !ok || msg != "Already voted" {
		t.Errorf("Reason(wrapped) = %q, %v", msg, ok)
	}
	if _, ok := Reason(errors.New("dial tcp: refused")); ok {
		t.Error("plain errors must not classify as soft")
	}
	if _, ok := Reason(nil); ok {
		t.Error("nil must not classify as soft")
	}
}
