package decision

import (
	"context"

	"github.com/churnguard/retention-engine/internal/domain"
)

// ProjectResolver resolves an opaque API credential to its owning project.
// Implementations must be safe for concurrent use.
type ProjectResolver interface {
	// ResolveByAPIKey returns the project owning the credential, or
	// ErrUnauthorized if no project matches.
	ResolveByAPIKey(ctx context.Context, apiKey string) (*domain.Project, error)
}

// OfferRepository reads a project's offer configuration. Offer definitions
// are read-only to the engine; implementations may cache with a short TTL
// since a decision treats them as an immutable snapshot.
type OfferRepository interface {
	// ListActiveOffers returns every is_active offer for the project.
	ListActiveOffers(ctx context.Context, projectID string) ([]domain.OfferDefinition, error)
}

// AuditSink appends decision-trail events. Append failures are non-fatal to
// the decision request: the service logs and proceeds.
type AuditSink interface {
	AppendEvent(ctx context.Context, event domain.AuditEvent) error
}

// DomainPolicy decides whether a request origin may use a project. The
// default policy checks the project's own allowlist; it is an interface so
// deployments can swap in an external access-control collaborator.
type DomainPolicy interface {
	IsOriginAllowed(project *domain.Project, origin string) bool
}

// AllowlistPolicy is the default DomainPolicy: the project's configured
// domain allowlist, empty meaning allow-all.
type AllowlistPolicy struct{}

func (AllowlistPolicy) IsOriginAllowed(project *domain.Project, origin string) bool {
	return project.IsOriginAllowed(origin)
}
