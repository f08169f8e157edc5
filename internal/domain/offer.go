package domain

import (
	"encoding/json"
	"time"
)

// OfferType enumerates the retention strategies a project can configure.
type OfferType string

const (
	OfferPause     OfferType = "pause"
	OfferDiscount  OfferType = "discount"
	OfferDowngrade OfferType = "downgrade"
	OfferConcierge OfferType = "concierge"
	OfferFeedback  OfferType = "feedback"
)

// OfferDefinition is a project-owned retention offer configuration. It is
// read-only to the engine; only active offers are ever scored.
//
// Priority is the static tie-break ordinal used when two offers compute the
// same priority score (lower = shown first). It is deliberately a different
// field from RankedOffer.PriorityScore, which is the primary ranking key.
type OfferDefinition struct {
	ID          string          `json:"id" db:"id"`
	ProjectID   string          `json:"project_id" db:"project_id"`
	OfferType   OfferType       `json:"offer_type" db:"offer_type"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Config      json.RawMessage `json:"config" db:"config"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	Priority    int             `json:"priority" db:"priority"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Guardrails describe when an offer is eligible. They are advisory metadata
// returned to the caller for client-side enforcement; the engine computes
// them but does not enforce cooldowns or usage caps itself.
type Guardrails struct {
	// MaxUsage caps usage-based eligibility. 0 means unbounded.
	MaxUsage int `json:"max_usage"`
	// MinTenureDays is the minimum account age for the offer.
	MinTenureDays int `json:"min_tenure_days"`
	// ApplicablePlans lists plan names the offer applies to; ["all"] means
	// every plan.
	ApplicablePlans []string `json:"applicable_plans"`
	// CooldownDays is the minimum spacing between grants of this offer.
	CooldownDays int `json:"cooldown_days"`
}

// DefaultGuardrails returns the baseline guardrails used for every
// (segment, offer type) pair that has no explicit override.
func DefaultGuardrails() Guardrails {
	return Guardrails{
		MaxUsage:        0,
		MinTenureDays:   0,
		ApplicablePlans: []string{"all"},
		CooldownDays:    0,
	}
}

// RankedOffer is a scored, rendered offer in the decision response. It is
// derived fresh per request and never persisted.
type RankedOffer struct {
	ID                    string          `json:"id"`
	Type                  OfferType       `json:"type"`
	Title                 string          `json:"title"`
	Copy                  string          `json:"copy"`
	ExpectedSaveOdds      int             `json:"expected_save_odds"`
	ProjectedRevenueSaved float64         `json:"projected_revenue_saved"`
	Guardrails            Guardrails      `json:"guardrails"`
	PriorityScore         int             `json:"priority_score"`
	Config                json.RawMessage `json:"config,omitempty"`

	// staticPriority carries OfferDefinition.Priority through ranking for
	// tie-breaking without exposing it in the response payload.
	StaticPriority int `json:"-"`
}
