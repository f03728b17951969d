package audit

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory archive backend for tests and ephemeral
// deployments.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStorage creates an in-memory archive.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*Record),
	}
}

// Store persists a copy of the record.
func (s *MemoryStorage) Store(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *record
	s.records[record.ID] = &cp
	return nil
}

// Query returns matching records, newest CompletedAt first.
func (s *MemoryStorage) Query(ctx context.Context, query *Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == nil {
		query = &Query{}
	}

	var results []*Record
	for _, r := range s.records {
		if !matches(r, query) {
			continue
		}
		cp := *r
		results = append(results, &cp)
	}

	sort.Slice(results, func(a, b int) bool {
		return results[a].CompletedAt.After(results[b].CompletedAt)
	})

	start := query.Offset
	if start > len(results) {
		return nil, nil
	}
	results = results[start:]
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results, nil
}

// Prune deletes records completed before the cutoff.
func (s *MemoryStorage) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, r := range s.records {
		if r.CompletedAt.Before(cutoff) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// matches applies the query filters to one record.
func matches(r *Record, q *Query) bool {
	if q == nil {
		return true
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if !q.From.IsZero() && r.CompletedAt.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && r.CompletedAt.After(q.To) {
		return false
	}
	return true
}
