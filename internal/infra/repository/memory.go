package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lienworks/lienos/internal/domain"
)

// MemoryStore is an in-memory tenant-scoped store with the same contract as
// DocumentRepository. It backs tests and the ephemeral storage mode.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.Record
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]domain.Record),
		now:         time.Now,
	}
}

// SetClock overrides the timestamp source, for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *MemoryStore) Create(ctx context.Context, collection string, data domain.Record, tenantID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := data.Clone()
	rec[domain.FieldTenantID] = tenantID

	id := rec.Str(domain.FieldID)
	if id == "" {
		id = uuid.NewString()
		rec[domain.FieldID] = id
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	rec[domain.FieldCreatedAt] = stamp
	rec[domain.FieldUpdatedAt] = stamp

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]domain.Record)
	}
	s.collections[collection][id] = rec
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id, tenantID string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok || !authorized(rec, tenantID) {
		return nil, domain.NotFoundError{Resource: "document"}
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, updates domain.Record, tenantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok || !authorized(rec, tenantID) {
		return false, nil
	}
	s.collections[collection][id] = mergeUpdates(rec, updates, s.now().UTC())
	return true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id, tenantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok || !authorized(rec, tenantID) {
		return false, nil
	}
	delete(s.collections[collection], id)
	return true, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection, tenantID string, q domain.Query) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.Record, 0)
	for _, rec := range s.collections[collection] {
		if authorized(rec, tenantID) {
			records = append(records, rec.Clone())
		}
	}
	return domain.ApplyQuery(records, q), nil
}
