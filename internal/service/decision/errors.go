package decision

import "errors"

// Sentinel errors for the decision service layer. The API layer maps these
// onto the HTTP error taxonomy; anything else escaping the service is an
// internal error.
var (
	// ErrUnauthorized covers a missing credential, an unknown credential, or
	// a credential resolving to an inactive project.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the request origin is not in the project's domain
	// allowlist.
	ErrForbidden = errors.New("origin not allowed")

	// ErrInvalidRequest wraps request validation failures (missing user.id,
	// missing session_id, negative numerics).
	ErrInvalidRequest = errors.New("invalid decision request")

	// ErrUpstreamUnavailable means the offer-configuration read failed. This
	// is fatal to the request; audit-append failures are not.
	ErrUpstreamUnavailable = errors.New("offer configuration unavailable")
)
