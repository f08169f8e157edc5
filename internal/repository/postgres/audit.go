package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/churnguard/retention-engine/internal/domain"
)

// AuditRepo implements decision.AuditSink against PostgreSQL. The table is
// append-only; nothing in the engine ever reads it back.
type AuditRepo struct{ db *sql.DB }

// NewAuditRepo creates a Postgres-backed audit sink.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// AppendEvent inserts one decision-trail event.
func (r *AuditRepo) AppendEvent(ctx context.Context, event domain.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO decision_audit_events
			(id, project_id, session_id, customer_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, event.ID, event.ProjectID, event.SessionID, event.CustomerID,
		event.EventType, event.Payload)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
