package ports

import (
	"context"

	"github.com/solacehq/solace/internal/domain"
)

// ProfileRepository is the durable principal → UserProfile mapping.
type ProfileRepository interface {
	// Create inserts a new profile. Returns domain.ErrAlreadyExists if
	// a profile for the principal is already present.
	Create(ctx context.Context, profile *domain.UserProfile) error
	// Get returns the profile for a principal, or domain.ErrNotFound.
	Get(ctx context.Context, principal string) (*domain.UserProfile, error)
	// Update overwrites an existing profile. Returns domain.ErrNotFound
	// if the principal was never registered.
	Update(ctx context.Context, profile *domain.UserProfile) error
	// Count returns the number of registered profiles.
	Count(ctx context.Context) (uint64, error)
}

// SessionRepository is the durable session_id → TherapySession mapping.
// Identifier allocation lives here so the counter increment and the
// insert share one storage transaction.
type SessionRepository interface {
	// Insert allocates the next session identifier from the store's
	// monotonic counter, assigns it to the session and persists the
	// record, all atomically. The assigned identifier is returned.
	Insert(ctx context.Context, session *domain.TherapySession) (string, error)
	// Get returns the session with the given identifier, or
	// domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.TherapySession, error)
	// Update overwrites an existing session record. Returns
	// domain.ErrNotFound if the identifier is unknown.
	Update(ctx context.Context, session *domain.TherapySession) error
	// ListByPrincipal returns every session owned by the principal in
	// store key order, which matches creation order.
	ListByPrincipal(ctx context.Context, principal string) ([]*domain.TherapySession, error)
	// Count returns the number of sessions across all principals.
	Count(ctx context.Context) (uint64, error)
}
