package ports

import (
	"context"

	"github.com/ruetfest/festcrm/internal/core/domain"
)

// Reconciler keeps the persisted privileged accounts and active sessions
// consistent with current configuration. It runs request-scoped, before any
// handler.
type Reconciler interface {
	// EnsureAccounts upserts a user row for each configured privileged
	// identity that has none yet. Idempotent.
	EnsureAccounts(ctx context.Context) error
	// Stale reports whether a privileged principal's username no longer
	// matches the currently configured one, meaning its session must be
	// invalidated.
	Stale(p *domain.Principal) bool
}
