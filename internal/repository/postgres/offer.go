package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/churnguard/retention-engine/internal/domain"
)

// OfferRepo implements decision.OfferRepository against PostgreSQL.
type OfferRepo struct{ db *sql.DB }

// NewOfferRepo creates a Postgres-backed offer repository.
func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{db: db} }

// ListActiveOffers returns every active offer definition for a project,
// ordered by static priority then id so reads are stable.
func (r *OfferRepo) ListActiveOffers(ctx context.Context, projectID string) ([]domain.OfferDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, offer_type, title, COALESCE(description,''),
		       COALESCE(config,'{}'), is_active, priority, created_at, updated_at
		FROM retention_offers
		WHERE project_id = $1 AND is_active = true
		ORDER BY priority ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list active offers: %w", err)
	}
	defer rows.Close()

	var out []domain.OfferDefinition
	for rows.Next() {
		var o domain.OfferDefinition
		if err := rows.Scan(
			&o.ID, &o.ProjectID, &o.OfferType, &o.Title, &o.Description,
			&o.Config, &o.IsActive, &o.Priority, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return out, nil
}
