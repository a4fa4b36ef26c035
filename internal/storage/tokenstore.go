package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys held by the store. Mirrors the browser-local
// storage layout the backend redirect flow expects: two opaque token
// strings plus one denormalized JSON blob of user info.
const (
	KeyAccess   = "access"
	KeyRefresh  = "refresh"
	KeyUserInfo = "user_info"
)

// TokenStore is a file-backed key-value store for persisted client
// state. Values are re-read from disk on every access so that a token
// written by one code path is visible to the next outbound request
// without any in-memory coordination.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

// NewTokenStore creates a store persisting to the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Get returns the stored value for key, or "" when absent.
func (s *TokenStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return ""
	}
	return values[key]
}

// Set stores a single value.
func (s *TokenStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		values = map[string]string{}
	}
	values[key] = value
	return s.save(values)
}

// SetAll stores multiple values in one write.
func (s *TokenStore) SetAll(pairs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		values = map[string]string{}
	}
	for k, v := range pairs {
		values[k] = v
	}
	return s.save(values)
}

// Delete removes a single key.
func (s *TokenStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Clear wipes all persisted state. Used on logout and on any
// session-restore failure.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear token store: %w", err)
	}
	return nil
}

// Access is a convenience accessor for the bearer token. Satisfies
// the api.TokenSource contract.
func (s *TokenStore) Access() string {
	return s.Get(KeyAccess)
}

func (s *TokenStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return map[string]string{}, err
	}
	return values, nil
}

// save writes atomically: temp file in the same directory, then rename.
func (s *TokenStore) save(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token store dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
