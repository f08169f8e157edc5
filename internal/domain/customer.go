package domain

import (
	"fmt"
	"strings"
)

// CustomerProfile is the immutable snapshot of a customer at the moment they
// attempt to cancel. It arrives on the wire and is never persisted.
type CustomerProfile struct {
	CustomerID       string  `json:"id"`
	MRR              float64 `json:"monthly_recurring_revenue"`
	Plan             string  `json:"plan"`
	TenureDays       int     `json:"tenure_days"`
	LastLoginDaysAgo int     `json:"last_login_days_ago"`
}

// Validate rejects malformed profiles. Validation lives here, not in the
// scoring pipeline: the engine assumes well-formed input so it can stay a
// total, pure function.
func (p CustomerProfile) Validate() error {
	if strings.TrimSpace(p.CustomerID) == "" {
		return fmt.Errorf("user.id is required")
	}
	if p.MRR < 0 {
		return fmt.Errorf("monthly_recurring_revenue must be non-negative")
	}
	if p.TenureDays < 0 {
		return fmt.Errorf("tenure_days must be non-negative")
	}
	if p.LastLoginDaysAgo < 0 {
		return fmt.Errorf("last_login_days_ago must be non-negative")
	}
	return nil
}

// PlanNormalized returns the plan name lowered for case-insensitive rule
// matching.
func (p CustomerProfile) PlanNormalized() string {
	return strings.ToLower(strings.TrimSpace(p.Plan))
}

// CancellationContext carries the cancel-flow session metadata. Intent and
// CancellationReason are free-text hints; PageURL and UserAgent are diagnostic
// only and never feed scoring.
type CancellationContext struct {
	SessionID          string `json:"session_id"`
	Intent             string `json:"intent,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	PageURL            string `json:"page_url,omitempty"`
	UserAgent          string `json:"user_agent,omitempty"`
}

// Validate checks the required correlation field.
func (c CancellationContext) Validate() error {
	if strings.TrimSpace(c.SessionID) == "" {
		return fmt.Errorf("context.session_id is required")
	}
	return nil
}
