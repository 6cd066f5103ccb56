// Package flash carries one-shot notices across a redirect, keyed by a
// per-browser cookie.
package flash

import (
	"context"
	"sync"
	"time"
)

// TTL bounds how long an unread flash survives.
const TTL = 60 * time.Second

type Flash struct {
	Notice string `json:"notice,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (f Flash) Empty() bool {
	return f.Notice == "" && f.Error == ""
}

// Store keeps at most one pending Flash per session id.
type Store interface {
	Set(ctx context.Context, id string, f Flash) error
	// Pop returns and removes the pending flash; the zero Flash when none.
	Pop(ctx context.Context, id string) (Flash, error)
	Ping(ctx context.Context) error
}

type memoryEntry struct {
	flash   Flash
	expires time.Time
}

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Set(_ context.Context, id string, f Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[id] = memoryEntry{flash: f, expires: now.Add(TTL)}
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, id string) (Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return Flash{}, nil
	}
	delete(s.entries, id)
	if s.now().After(e.expires) {
		return Flash{}, nil
	}
	return e.flash, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
