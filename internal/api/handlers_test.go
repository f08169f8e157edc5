package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churnguard/retention-engine/internal/api"
	"github.com/churnguard/retention-engine/internal/domain"
	decision "github.com/churnguard/retention-engine/internal/service/decision"
)

type stubProjects struct {
	projects map[string]*domain.Project
}

func (s *stubProjects) ResolveByAPIKey(_ context.Context, apiKey string) (*domain.Project, error) {
	if p, ok := s.projects[apiKey]; ok {
		return p, nil
	}
	return nil, decision.ErrUnauthorized
}

type stubOffers struct {
	offers []domain.OfferDefinition
	err    error
}

func (s *stubOffers) ListActiveOffers(_ context.Context, _ string) ([]domain.OfferDefinition, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.offers, nil
}

type stubAudit struct {
	events []domain.AuditEvent
}

func (s *stubAudit) AppendEvent(_ context.Context, event domain.AuditEvent) error {
	s.events = append(s.events, event)
	return nil
}

func testProject() *domain.Project {
	return &domain.Project{
		ID:             "proj-1",
		Name:           "Acme",
		APIKey:         "pk_live_acme",
		AllowedDomains: []string{"acme.example"},
		IsActive:       true,
	}
}

func testOffers() []domain.OfferDefinition {
	return []domain.OfferDefinition{
		{ID: "off-pause", OfferType: domain.OfferPause, Title: "Pause", IsActive: true, Priority: 2},
		{ID: "off-discount", OfferType: domain.OfferDiscount, Title: "Discount", IsActive: true, Priority: 1},
		{ID: "off-concierge", OfferType: domain.OfferConcierge, Title: "Concierge", IsActive: true, Priority: 3},
		{ID: "off-feedback", OfferType: domain.OfferFeedback, Title: "Feedback", IsActive: true, Priority: 4},
		{ID: "off-downgrade", OfferType: domain.OfferDowngrade, Title: "Downgrade", IsActive: true, Priority: 5},
	}
}

func newTestRouter(offers *stubOffers, audit *stubAudit) http.Handler {
	svc := decision.NewService(
		&stubProjects{projects: map[string]*domain.Project{"pk_live_acme": testProject()}},
		offers,
		audit,
	)
	return api.SetupRoutes(api.NewDecisionHandler(svc), nil)
}

func decideBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"user": map[string]interface{}{
			"id":                        "cust_42",
			"monthly_recurring_revenue": 600,
			"plan":                      "enterprise",
			"tenure_days":               400,
			"last_login_days_ago":       1,
		},
		"context": map[string]interface{}{
			"session_id": "sess-1",
			"intent":     "cancel",
		},
	})
	require.NoError(t, err)
	return body
}

func doRequest(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDecideRequiresCredential(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(decideBody(t)))
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestDecideRejectsUnknownKey(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(decideBody(t)))
	req.Header.Set("X-API-Key", "pk_live_wrong")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDecideRejectsDisallowedOrigin(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(decideBody(t)))
	req.Header.Set("X-API-Key", "pk_live_acme")
	req.Header.Set("Origin", "https://evil.example")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDecideSuccess(t *testing.T) {
	audit := &stubAudit{}
	router := newTestRouter(&stubOffers{offers: testOffers()}, audit)

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(decideBody(t)))
	req.Header.Set("X-API-Key", "pk_live_acme")
	req.Header.Set("Origin", "https://app.acme.example")
	rec := doRequest(router, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp decision.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.Offers)
	require.NotNil(t, resp.PrimaryOffer)
	assert.Equal(t, "off-concierge", resp.PrimaryOffer.ID)
	assert.Equal(t, decision.EngineVersion, resp.EngineVersion)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, domain.SegmentVIP, resp.UserAnalysis.Segment)

	// Both audit events were written through the HTTP path.
	require.Len(t, audit.events, 2)
	assert.Equal(t, domain.AuditCancelAttempt, audit.events[0].EventType)
	assert.Equal(t, domain.AuditOffersRanked, audit.events[1].EventType)
}

func TestDecideBearerTokenAccepted(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(decideBody(t)))
	req.Header.Set("Authorization", "Bearer pk_live_acme")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDecideFullList(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	// A standard-segment customer qualifies for discount, pause, concierge
	// and downgrade, so the full list is longer than the top-3 cut.
	body, err := json.Marshal(map[string]interface{}{
		"user": map[string]interface{}{
			"id":                        "cust_7",
			"monthly_recurring_revenue": 100,
			"plan":                      "basic",
			"tenure_days":               200,
			"last_login_days_ago":       3,
		},
		"context": map[string]interface{}{
			"session_id": "sess-2",
			"intent":     "cancel",
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(body))
	req.Header.Set("X-API-Key", "pk_live_acme")
	rec := doRequest(router, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp decision.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Offers, 3)

	req = httptest.NewRequest(http.MethodPost, "/v1/decide?full=true", bytes.NewReader(body))
	req.Header.Set("X-API-Key", "pk_live_acme")
	rec = doRequest(router, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var full decision.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &full))
	assert.Len(t, full.Offers, 4)
}

func TestDecideInvalidJSON(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-API-Key", "pk_live_acme")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecideValidationError(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	body, err := json.Marshal(map[string]interface{}{
		"user":    map[string]interface{}{"id": "", "monthly_recurring_revenue": 100},
		"context": map[string]interface{}{"session_id": "sess-1"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(body))
	req.Header.Set("X-API-Key", "pk_live_acme")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecideUpstreamFailure(t *testing.T) {
	router := newTestRouter(&stubOffers{err: errors.New("pq: connection refused")}, &stubAudit{})

	req := httptest.NewRequest(http.MethodPost, "/v1/decide", bytes.NewReader(decideBody(t)))
	req.Header.Set("X-API-Key", "pk_live_acme")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	// The pq error detail must not leak to the client.
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestPreviewOffers(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	req := httptest.NewRequest(http.MethodGet, "/v1/offers/preview?segment=vip", nil)
	req.Header.Set("X-API-Key", "pk_live_acme")
	rec := doRequest(router, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Segment domain.Segment       `json:"segment"`
		Offers  []domain.RankedOffer `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.SegmentVIP, resp.Segment)
	assert.NotEmpty(t, resp.Offers)
}

func TestPreviewRequiresSegment(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	req := httptest.NewRequest(http.MethodGet, "/v1/offers/preview", nil)
	req.Header.Set("X-API-Key", "pk_live_acme")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewUnknownSegment(t *testing.T) {
	router := newTestRouter(&stubOffers{offers: testOffers()}, &stubAudit{})

	req := httptest.NewRequest(http.MethodGet, "/v1/offers/preview?segment=whales", nil)
	req.Header.Set("X-API-Key", "pk_live_acme")
	rec := doRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthLiveness(t *testing.T) {
	hc := api.NewHealthChecker(nil, nil)
	router := api.SetupRoutes(api.NewDecisionHandler(decision.NewService(
		&stubProjects{projects: map[string]*domain.Project{}},
		&stubOffers{},
		&stubAudit{},
	)), hc)

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}
