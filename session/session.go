// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mkisa/guildvote/models"
)

var (
	ErrNameRequired = errors.New("a display name is required")
	ErrBadRole      = errors.New("unknown role")
)

// Holder keeps the signed-in user for one terminal. There is no implicit
// global: each surface constructs its own Holder and asks it who, if
// anyone, is signed in.
type Holder struct {
	mu   sync.Mutex
	user *models.User
}

func New() *Holder {
	return &Holder{}
}

// Login replaces any existing session with a fresh one. The user id is
// minted here, never supplied by the caller. Credential is the role's
// secret - the staff key for staff roles, the session token for voters -
// and is held only for request stamping.
func (h *Holder) Login(role, name, credential string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, ErrNameRequired
	}
	switch role {
	case models.RoleVoter, models.RoleAdmin, models.RoleOfficer, models.RoleCandidate:
	default:
		return models.User{}, ErrBadRole
	}

	u := models.User{
		ID:    uuid.NewString(),
		Name:  name,
		Role:  role,
		Token: credential,
	}

	h.mu.Lock()
	h.user = &u
	h.mu.Unlock()
	return u, nil
}

// Logout clears the session. Safe to call when nobody is signed in.
func (h *Holder) Logout() {
	h.mu.Lock()
	h.user = nil
	h.mu.Unlock()
}

// Current returns the signed-in user, or false when there is none. The
// returned value is a copy; mutating it does not touch the session.
func (h *Holder) Current() (models.User, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.user == nil {
		return models.User{}, false
	}
	return *h.user, true
}
