package server

import "sync"

// APIKeyStore holds the API keys accepted by the server. Keys can be
// replaced while the server runs.
type APIKeyStore struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewAPIKeyStore creates a store holding keys; empty keys are ignored
func NewAPIKeyStore(keys []string) *APIKeyStore {
	s := &APIKeyStore{}
	s.Replace(keys)
	return s
}

// Replace swaps the whole key set
func (s *APIKeyStore) Replace(keys []string) {
	next := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key != "" {
			next[key] = struct{}{}
		}
	}

	s.mu.Lock()
	s.keys = next
	s.mu.Unlock()
}

// Valid reports whether key is accepted
func (s *APIKeyStore) Valid(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok
}

// Count returns the number of accepted keys. Zero disables authentication.
func (s *APIKeyStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
