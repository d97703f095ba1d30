package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps records in process. Counts are per instance.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration, limit int) (bool, Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current *Record
	if rec, ok := s.records[key]; ok {
		current = &rec
	}

	next, allowed := apply(current, key, now, window, limit)
	s.records[key] = next
	return allowed, next, nil
}

func (s *MemoryStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, rec := range s.records {
		if rec.WindowStart.Before(cutoff) {
			delete(s.records, key)
			removed++
		}
	}
	return removed, nil
}

// Get returns the record for key.
func (s *MemoryStore) Get(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	return rec, ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
