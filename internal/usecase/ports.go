package usecase

import (
	"context"

	"github.com/lienworks/lienos/internal/domain"
)

// Store is the tenant-scoped document store. Every operation is scoped to the
// supplied tenant: a record is visible to, and mutable by, exactly the tenant
// named in its tenant_id field. A tenant mismatch is indistinguishable from
// true absence.
type Store interface {
	// Create forces data.tenant_id, generates an id when absent (a supplied
	// id is honored), stamps created_at/updated_at, and returns the id.
	Create(ctx context.Context, collection string, data domain.Record, tenantID string) (string, error)
	// Get returns the record only when it exists and belongs to tenantID;
	// otherwise domain.NotFoundError.
	Get(ctx context.Context, collection, id, tenantID string) (domain.Record, error)
	// Update authorizes via Get, strips tenant_id from updates, stamps
	// updated_at, and applies a partial merge. Returns false when
	// unauthorized or absent.
	Update(ctx context.Context, collection, id string, updates domain.Record, tenantID string) (bool, error)
	// Delete authorizes via Get, then physically removes the record.
	Delete(ctx context.Context, collection, id, tenantID string) (bool, error)
	// Query filters by tenant_id equality before applying q.
	Query(ctx context.Context, collection, tenantID string, q domain.Query) ([]domain.Record, error)
}

// ValuationCache caches valuation results. Implementations may be absent;
// usecases treat a nil cache as a pass-through.
type ValuationCache interface {
	Get(ctx context.Context, key string) (map[string]any, bool)
	Set(ctx context.Context, key string, fields map[string]any)
	Delete(ctx context.Context, key string)
}

// Publisher emits realtime events for websocket subscribers. Publishing is
// fire-and-forget from the engine's point of view.
type Publisher interface {
	Publish(ctx context.Context, channel string, event domain.Event) error
}
