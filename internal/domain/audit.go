package domain

import (
	"encoding/json"
	"time"
)

// AuditEventType enumerates the decision-trail events the engine emits.
type AuditEventType string

const (
	// AuditCancelAttempt is written when a validated decision request arrives.
	AuditCancelAttempt AuditEventType = "cancel_attempt"
	// AuditOffersRanked is written after ranking, with the outcome payload.
	AuditOffersRanked AuditEventType = "offers_ranked"
)

// AuditEvent is one append-only record in a project's decision trail.
// Losing an audit record is non-fatal to the decision request.
type AuditEvent struct {
	ID         string          `json:"id" db:"id"`
	ProjectID  string          `json:"project_id" db:"project_id"`
	SessionID  string          `json:"session_id" db:"session_id"`
	CustomerID string          `json:"customer_id" db:"customer_id"`
	EventType  AuditEventType  `json:"event_type" db:"event_type"`
	Payload    json.RawMessage `json:"payload" db:"payload"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
