// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package guard

import "github.com/mkisa/guildvote/models"

// Destinations a denied visitor is sent to.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// Decision is the outcome of a guard check. When Allowed is false,
// Redirect names where to send the visitor instead.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Check decides whether a user may enter a surface restricted to the given
// roles. The decision is a pure function of its inputs:
//
//   - with no role restriction, anyone passes, signed in or not;
//   - a restricted surface turns away visitors with no session at all,
//     sending them to the login screen;
//   - a signed-in user whose role is not in the set is sent home rather
//     than to login, since logging in again would not help.
func Check(user *models.User, roles ...string) Decision {
	if len(roles) == 0 {
		return Decision{Allowed: true}
	}
	if user == nil {
		return Decision{Redirect: LoginRoute}
	}
	for _, r := range roles {
		if user.Role == r {
			return Decision{Allowed: true}
		}
	}
	return Decision{Redirect: HomeRoute}
}
