package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/churnguard/retention-engine/internal/domain"
	"github.com/churnguard/retention-engine/internal/service/decision"
)

// ProjectRepo implements decision.ProjectResolver against PostgreSQL.
type ProjectRepo struct{ db *sql.DB }

// NewProjectRepo creates a Postgres-backed project resolver.
func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

// ResolveByAPIKey returns the project owning the credential. An unknown key
// maps to decision.ErrUnauthorized so callers never learn whether the key
// exists.
func (r *ProjectRepo) ResolveByAPIKey(ctx context.Context, apiKey string) (*domain.Project, error) {
	p := &domain.Project{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, api_key, COALESCE(allowed_domains, '{}'), is_active,
		       created_at, updated_at
		FROM projects
		WHERE api_key = $1
	`, apiKey).Scan(
		&p.ID, &p.Name, &p.APIKey, pq.Array(&p.AllowedDomains), &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, decision.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("resolve project: %w", err)
	}
	return p, nil
}
