// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"testing"

	"github.com/mkisa/guildvote/models"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		userName   string
		credential string
		wantErr    error
	}{
		{name: "voter with token", role: models.RoleVoter, userName: "Achen Grace", credential: "tok_abc"},
		{name: "admin with staff key", role: models.RoleAdmin, userName: "Guild Admin", credential: "staff-key"},
		{name: "officer", role: models.RoleOfficer, userName: "Returning Officer", credential: "staff-key"},
		{name: "candidate without credential", role: models.RoleCandidate, userName: "Okello Bosco"},
		{name: "blank name rejected", role: models.RoleVoter, userName: "   ", wantErr: ErrNameRequired},
		{name: "unknown role rejected", role: "SUPERUSER", userName: "Nobody", wantErr: ErrBadRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			u, err := h.Login(tt.role, tt.userName, tt.credential)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if _, ok := h.Current(); ok {
					t.Error("failed Login() must not leave a session behind")
				}
				return
			}

			if u.ID == "" {
				t.Error("Login() must mint a user id")
			}
			if u.Role != tt.role || u.Token != tt.credential {
				t.Errorf("Login() = %+v, want role %s credential %s", u, tt.role, tt.credential)
			}
			got, ok := h.Current()
			if !ok || got.ID != u.ID {
				t.Errorf("Current() = %+v, %v; want the logged-in user", got, ok)
			}
		})
	}
}

func TestLoginReplacesSession(t *testing.T) {
	h := New()

	first, err := h.Login(models.RoleVoter, "Achen Grace", "tok_abc")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	second, err := h.Login(models.RoleAdmin, "Guild Admin", "staff-key")
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}

	if first.ID == second.ID {
		t.Error("each Login() must mint a distinct id")
	}
	got, ok := h.Current()
	if !ok || got.Role != models.RoleAdmin {
		t.Errorf("Current() = %+v, %v; want the second session", got, ok)
	}
}

func TestLogout(t *testing.T) {
	h := New()

	// Logout with no session is a no-op
	h.Logout()

	if _, err := h.Login(models.RoleVoter, "Achen Grace", "tok_abc"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	h.Logout()

	if _, ok := h.Current(); ok {
		t.Error("Current() after Logout() must report no session")
	}
}

func TestHoldersAreIndependent(t *testing.T) {
	voter := New()
	staff := New()

	if _, err := voter.Login(models.RoleVoter, "Achen Grace", "tok_abc"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, ok := staff.Current(); ok {
		t.Error("a login on one holder must not leak into another")
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	h := New()
	if _, err := h.Login(models.RoleVoter, "Achen Grace", "tok_abc"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	got, _ := h.Current()
	got.Name = "tampered"

	again, _ := h.Current()
	if again.Name != "Achen Grace" {
		t.Error("mutating the returned user must not touch the session")
	}
}
