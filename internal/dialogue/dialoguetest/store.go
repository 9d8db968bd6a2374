// Package dialoguetest provides an in-memory dialogue.Store for tests.
package dialoguetest

import (
	"context"
	"sync"
	"time"
)

// Store is a map-backed dialogue.Store. Expiry is checked against Now.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	Now  func() time.Time

	PutErr error
}

type entry struct {
	value   []byte
	expires time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: make(map[string]entry), Now: time.Now}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok || !s.Now().Before(e.expires) {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (s *Store) Put(_ context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	s.data[key] = entry{value: append([]byte(nil), data...), expires: s.Now().Add(ttl)}
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Keys returns the live keys.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k, e := range s.data {
		if s.Now().Before(e.expires) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Raw returns the stored bytes for key.
func (s *Store) Raw(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key].value
}
