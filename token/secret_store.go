package token

import (
	"os"
	"sync"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
)

// SecretSource supplies the current HMAC secret for session tokens
type SecretSource interface {
	Secret() (string, error)
}

// SecretStore caches the session signing secret read from the process environment.
// Every call re-reads the environment, so a rotated value replaces the cache
// without a restart. Safe for concurrent use.
type SecretStore struct {
	envVar string
	lookup func(string) (string, bool)

	mu     sync.RWMutex
	cached string
}

var _ SecretSource = (*SecretStore)(nil)

type SecretStoreOption func(*SecretStore)

// WithLookup replaces os.LookupEnv as the secret source
func WithLookup(lookup func(string) (string, bool)) SecretStoreOption {
	return func(s *SecretStore) {
		s.lookup = lookup
	}
}

func NewSecretStore(envVar string, options ...SecretStoreOption) *SecretStore {
	s := &SecretStore{
		envVar: envVar,
		lookup: os.LookupEnv,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Secret returns the live secret, refreshing the cache when the source changed.
// A missing or empty value is a configuration error.
func (s *SecretStore) Secret() (string, error) {
	live, ok := s.lookup(s.envVar)
	if !ok || live == "" {
		return "", errors.Wrapf(errors.ErrConfiguration, "%s is not set", s.envVar)
	}

	s.mu.RLock()
	current := s.cached
	s.mu.RUnlock()
	if current == live {
		return current, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = live
	return s.cached, nil
}
