package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/churnguard/retention-engine/internal/domain"
	"github.com/churnguard/retention-engine/internal/pkg/httputil"
	"github.com/churnguard/retention-engine/internal/pkg/logger"
	decision "github.com/churnguard/retention-engine/internal/service/decision"
)

// DecisionHandler exposes the decision service over HTTP.
type DecisionHandler struct {
	svc *decision.Service
}

// NewDecisionHandler creates a DecisionHandler.
func NewDecisionHandler(svc *decision.Service) *DecisionHandler {
	return &DecisionHandler{svc: svc}
}

type contextKey string

const projectContextKey contextKey = "project"

// RequireProject authenticates the request by its project credential and
// enforces the project's origin allowlist. The resolved project is stored in
// the request context for downstream handlers.
//
// The credential is read from X-API-Key, falling back to a bearer token in
// the Authorization header.
func (h *DecisionHandler) RequireProject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		project, err := h.svc.Authorize(r.Context(), apiKey, r.Header.Get("Origin"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), projectContextKey, project)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// projectFromContext returns the project placed by RequireProject.
func projectFromContext(ctx context.Context) *domain.Project {
	project, _ := ctx.Value(projectContextKey).(*domain.Project)
	return project
}

// HandleDecide runs one retention decision for a cancellation attempt.
// Pass ?full=true to receive the complete ranked list instead of the top-N
// cut.
//
//	POST /v1/decide
func (h *DecisionHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	project := projectFromContext(r.Context())
	if project == nil {
		httputil.Unauthorized(w, "unauthorized")
		return
	}

	var req decision.Request
	if !httputil.Decode(w, r, &req) {
		return
	}

	opts := decision.Options{
		FullList: r.URL.Query().Get("full") == "true",
	}

	resp, err := h.svc.Decide(r.Context(), project, req, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	logger.Info("decision served",
		"project_id", project.ID,
		"session_id", resp.SessionID,
		"customer_id", req.User.CustomerID,
		"offers_shown", len(resp.Offers),
	)

	httputil.OK(w, resp)
}

// HandlePreview evaluates a project's active offers against a representative
// profile for the requested segment. Operator-facing; writes no audit trail.
//
//	GET /v1/offers/preview?segment=vip
func (h *DecisionHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	project := projectFromContext(r.Context())
	if project == nil {
		httputil.Unauthorized(w, "unauthorized")
		return
	}

	segment := domain.Segment(r.URL.Query().Get("segment"))
	if segment == "" {
		httputil.BadRequest(w, "segment query parameter is required")
		return
	}

	offers, err := h.svc.PreviewOffers(r.Context(), project.ID, segment)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.OK(w, map[string]interface{}{
		"segment": segment,
		"offers":  offers,
	})
}
