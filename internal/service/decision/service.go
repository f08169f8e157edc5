package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	engine "github.com/churnguard/retention-engine/internal/decision"
	"github.com/churnguard/retention-engine/internal/domain"
	"github.com/churnguard/retention-engine/internal/pkg/logger"
)

// EngineVersion is reported in every decision response so callers can pin
// behavior across policy revisions.
const EngineVersion = "1.4.0"

// NoOffersMessage is returned when no configured offer applies to the
// customer's segment.
const NoOffersMessage = "No suitable offers found for user profile"

// DefaultTopN is how many ranked offers the primary response carries.
const DefaultTopN = 3

// Service orchestrates decision requests. All public methods are safe for
// concurrent use; the engine is stateless and the repositories are required
// to be concurrency-safe.
type Service struct {
	projects ProjectResolver
	offers   OfferRepository
	audit    AuditSink
	policy   DomainPolicy
	engine   *engine.Engine
	topN     int
	now      func() time.Time
}

// NewService creates a decision service with the default domain policy and
// top-N cut.
func NewService(projects ProjectResolver, offers OfferRepository, audit AuditSink) *Service {
	return &Service{
		projects: projects,
		offers:   offers,
		audit:    audit,
		policy:   AllowlistPolicy{},
		engine:   engine.NewEngine(),
		topN:     DefaultTopN,
		now:      time.Now,
	}
}

// SetTopN overrides how many offers the primary response carries.
func (s *Service) SetTopN(n int) {
	if n > 0 {
		s.topN = n
	}
}

// SetPolicy swaps the domain policy collaborator.
func (s *Service) SetPolicy(p DomainPolicy) {
	if p != nil {
		s.policy = p
	}
}

// Request is the inbound decision payload.
type Request struct {
	User    domain.CustomerProfile     `json:"user"`
	Context domain.CancellationContext `json:"context"`
}

// Response is the decision outcome returned to the cancel flow.
type Response struct {
	Offers        []domain.RankedOffer `json:"offers"`
	PrimaryOffer  *domain.RankedOffer  `json:"primary_offer"`
	Message       string               `json:"message,omitempty"`
	UserAnalysis  domain.UserAnalysis  `json:"user_analysis"`
	SessionID     string               `json:"session_id"`
	Timestamp     time.Time            `json:"timestamp"`
	EngineVersion string               `json:"decision_engine_version"`
}

// Options tunes a single decision call.
type Options struct {
	// FullList returns the complete ranked list instead of the top-N cut.
	FullList bool
}

// Authorize resolves the credential and enforces the origin policy. Returns
// ErrUnauthorized for a missing/unknown credential or inactive project, and
// ErrForbidden when the origin fails the allowlist.
func (s *Service) Authorize(ctx context.Context, apiKey, origin string) (*domain.Project, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrUnauthorized
	}
	project, err := s.projects.ResolveByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if project == nil || !project.IsActive {
		return nil, ErrUnauthorized
	}
	if !s.policy.IsOriginAllowed(project, origin) {
		return nil, ErrForbidden
	}
	return project, nil
}

// Decide runs one retention decision for an already-authorized project.
//
// The only fatal I/O is the offer-configuration read; both audit appends are
// logged and swallowed on failure so the customer-facing flow always gets a
// decision. The scoring pipeline itself is total and never errors.
func (s *Service) Decide(ctx context.Context, project *domain.Project, req Request, opts Options) (*Response, error) {
	if err := req.User.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := req.Context.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	s.appendAudit(ctx, project.ID, req, domain.AuditCancelAttempt, map[string]interface{}{
		"intent":              req.Context.Intent,
		"cancellation_reason": req.Context.CancellationReason,
		"mrr":                 req.User.MRR,
		"plan":                req.User.PlanNormalized(),
	})

	offers, err := s.offers.ListActiveOffers(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	out := s.engine.Evaluate(offers, req.User, req.Context)

	shown := out.Ranked
	if !opts.FullList && len(shown) > s.topN {
		shown = shown[:s.topN]
	}

	resp := &Response{
		Offers:        shown,
		UserAnalysis:  out.Analysis,
		SessionID:     req.Context.SessionID,
		Timestamp:     s.now().UTC(),
		EngineVersion: EngineVersion,
	}
	if len(shown) > 0 {
		resp.PrimaryOffer = &shown[0]
	} else {
		resp.Message = NoOffersMessage
	}

	offerIDs := make([]string, 0, len(out.Ranked))
	for _, o := range out.Ranked {
		offerIDs = append(offerIDs, o.ID)
	}
	s.appendAudit(ctx, project.ID, req, domain.AuditOffersRanked, map[string]interface{}{
		"segment":        out.Segment,
		"offer_ids":      offerIDs,
		"offers_shown":   len(shown),
		"offers_ranked":  len(out.Ranked),
		"engine_version": EngineVersion,
	})

	return resp, nil
}

// PreviewOffers evaluates the project's active offers against a synthetic
// profile representative of the given segment. Used by operators to see what
// customers in a segment would be shown. No audit events are written.
func (s *Service) PreviewOffers(ctx context.Context, projectID string, segment domain.Segment) ([]domain.RankedOffer, error) {
	profile, ctxIn, ok := syntheticProfile(segment)
	if !ok {
		return nil, fmt.Errorf("%w: unknown segment %q", ErrInvalidRequest, segment)
	}

	offers, err := s.offers.ListActiveOffers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return s.engine.Rank(offers, profile, ctxIn, segment), nil
}

// syntheticProfile returns a representative profile/context pair that the
// classifier maps to the requested segment.
func syntheticProfile(segment domain.Segment) (domain.CustomerProfile, domain.CancellationContext, bool) {
	base := domain.CancellationContext{SessionID: "preview"}
	switch segment {
	case domain.SegmentVIP:
		return domain.CustomerProfile{CustomerID: "preview", MRR: 750, Plan: "enterprise", TenureDays: 365, LastLoginDaysAgo: 2}, base, true
	case domain.SegmentPriceSensitive:
		ctx := base
		ctx.CancellationReason = "too expensive"
		return domain.CustomerProfile{CustomerID: "preview", MRR: 60, Plan: "basic", TenureDays: 120, LastLoginDaysAgo: 3}, ctx, true
	case domain.SegmentLowUsage:
		return domain.CustomerProfile{CustomerID: "preview", MRR: 90, Plan: "basic", TenureDays: 180, LastLoginDaysAgo: 28}, base, true
	case domain.SegmentShortTenure:
		return domain.CustomerProfile{CustomerID: "preview", MRR: 90, Plan: "basic", TenureDays: 12, LastLoginDaysAgo: 2}, base, true
	case domain.SegmentDowngradeAvailable:
		return domain.CustomerProfile{CustomerID: "preview", MRR: 120, Plan: "pro", TenureDays: 200, LastLoginDaysAgo: 3}, base, true
	case domain.SegmentStandard:
		return domain.CustomerProfile{CustomerID: "preview", MRR: 90, Plan: "basic", TenureDays: 200, LastLoginDaysAgo: 3}, base, true
	}
	return domain.CustomerProfile{}, domain.CancellationContext{}, false
}

// appendAudit writes one decision-trail event. Failures are logged and
// swallowed: losing an audit record must not fail the customer-facing flow.
func (s *Service) appendAudit(ctx context.Context, projectID string, req Request, eventType domain.AuditEventType, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("audit payload marshal failed", "event_type", string(eventType), "error", err.Error())
		data = []byte("{}")
	}

	event := domain.AuditEvent{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		SessionID:  req.Context.SessionID,
		CustomerID: req.User.CustomerID,
		EventType:  eventType,
		Payload:    data,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.audit.AppendEvent(ctx, event); err != nil {
		logger.Warn("audit append failed",
			"event_type", string(eventType),
			"project_id", projectID,
			"session_id", req.Context.SessionID,
			"error", err.Error(),
		)
	}
}
