// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remote

import "errors"

// ServiceError is a soft failure: the election service answered and rejected
// the request with a human-readable reason (success=false in the envelope).
// Anything else returned by the client is a transport failure.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Reason extracts the service-supplied message when err is a soft failure.
// ok is false for transport failures.
func Reason(err error) (message string, ok bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message, true
	}
	return "", false
}
