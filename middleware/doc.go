// Copyright (c) 2026 Martin Kisa.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helpers for the demo
election service.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for browser dashboards:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, X-Session-Token, X-Staff-Key.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.SoftFailure(w, http.StatusConflict, "Already voted")

SoftFailure writes the contract's success=false envelope; remote clients
surface it as a service message instead of a transport error.

Parse JSON request bodies:

	var req models.VerifyCodeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Header Extraction

	token := middleware.SessionToken(r) // X-Session-Token
	key := middleware.StaffKey(r)       // X-Staff-Key
	ip := middleware.GetClientIP(r)     // X-Forwarded-For aware

The client IP feeds the audit log's privacy-preserving IP hash.
*/
package middleware
