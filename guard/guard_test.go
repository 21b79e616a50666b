// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package guard

import (
	"testing"

	"github.com/mkisa/guildvote/models"
)

func TestCheck(t *testing.T) {
	voter := &models.User{ID: "u1", Role: models.RoleVoter}
	admin := &models.User{ID: "u2", Role: models.RoleAdmin}
	officer := &models.User{ID: "u3", Role: models.RoleOfficer}

	tests := []struct {
		name         string
		user         *models.User
		roles        []string
		wantAllowed  bool
		wantRedirect string
	}{
		{
			name:        "open surface admits anonymous visitors",
			user:        nil,
			wantAllowed: true,
		},
		{
			name:        "open surface admits any role",
			user:        voter,
			wantAllowed: true,
		},
		{
			name:         "restricted surface turns anonymous visitors to login",
			user:         nil,
			roles:        []string{models.RoleAdmin},
			wantRedirect: LoginRoute,
		},
		{
			name:        "matching role passes",
			user:        admin,
			roles:       []string{models.RoleAdmin},
			wantAllowed: true,
		},
		{
			name:        "any role in the set passes",
			user:        officer,
			roles:       []string{models.RoleAdmin, models.RoleOfficer},
			wantAllowed: true,
		},
		{
			name:         "wrong role is sent home, not to login",
			user:         voter,
			roles:        []string{models.RoleAdmin},
			wantRedirect: HomeRoute,
		},
		{
			name:         "wrong role against a multi-role set",
			user:         voter,
			roles:        []string{models.RoleAdmin, models.RoleOfficer},
			wantRedirect: HomeRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.user, tt.roles...)

			if got.Allowed != tt.wantAllowed {
				t.Errorf("Check().Allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if got.Redirect != tt.wantRedirect {
				t.Errorf("Check().Redirect = %q, want %q", got.Redirect, tt.wantRedirect)
			}
			if got.Allowed && got.Redirect != "" {
				t.Error("an allowed decision must not carry a redirect")
			}
		})
	}
}
