package session

import "sync"

// Store holds the current credential. The API client only reads it.
type Store struct {
	mu         sync.RWMutex
	credential *Credential
}

// NewStore creates a store seeded with the given credential, which may be nil.
func NewStore(credential *Credential) *Store {
	return &Store{credential: credential.Clone()}
}

// Token returns the current bearer token or an empty string.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.credential == nil {
		return ""
	}

	return s.credential.Token
}

// Credential returns a copy of the current credential.
func (s *Store) Credential() *Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.credential.Clone()
}

// Set replaces the credential after a login.
func (s *Store) Set(credential *Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = credential.Clone()
}

// Clear forgets the credential on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credential = nil
}
