package api

import (
	"errors"
	"net/http"

	"github.com/churnguard/retention-engine/internal/pkg/httputil"
	decision "github.com/churnguard/retention-engine/internal/service/decision"
)

// writeServiceError maps service errors onto the HTTP error taxonomy.
// Client errors (4xx) expose the error message; server errors return a
// generic body while the real error is logged.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, decision.ErrUnauthorized):
		httputil.Unauthorized(w, "unauthorized")
	case errors.Is(err, decision.ErrForbidden):
		httputil.Forbidden(w, "origin not allowed for this project")
	case errors.Is(err, decision.ErrInvalidRequest):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, decision.ErrUpstreamUnavailable):
		httputil.ServiceUnavailable(w, err)
	default:
		httputil.InternalError(w, err)
	}
}
