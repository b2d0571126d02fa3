package token_test

import (
	"sync"
	"testing"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secretEnvVar = "JWT_SECRET_KEY"

// fakeEnv is a concurrency safe stand-in for the process environment
type fakeEnv struct {
	mu     sync.RWMutex
	values map[string]string
}

func newFakeEnv(values map[string]string) *fakeEnv {
	return &fakeEnv{values: values}
}

func (e *fakeEnv) Set(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[key] = value
}

func (e *fakeEnv) Unset(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.values, key)
}

func (e *fakeEnv) Lookup(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.values[key]
	return v, ok
}

func TestSecretStore_ReturnsEnvironmentValue(t *testing.T) {
	env := newFakeEnv(map[string]string{secretEnvVar: "first"})
	store := token.NewSecretStore(secretEnvVar, token.WithLookup(env.Lookup))

	secret, err := store.Secret()

	require.NoError(t, err)
	require.Equal(t, "first", secret)
}

func TestSecretStore_ObservesRotation(t *testing.T) {
	env := newFakeEnv(map[string]string{secretEnvVar: "first"})
	store := token.NewSecretStore(secretEnvVar, token.WithLookup(env.Lookup))

	_, err := store.Secret()
	require.NoError(t, err)

	env.Set(secretEnvVar, "second")
	secret, err := store.Secret()

	require.NoError(t, err)
	require.Equal(t, "second", secret)
}

func TestSecretStore_MissingOrEmptyIsConfigurationError(t *testing.T) {
	env := newFakeEnv(map[string]string{})
	store := token.NewSecretStore(secretEnvVar, token.WithLookup(env.Lookup))

	_, err := store.Secret()
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrConfiguration))

	env.Set(secretEnvVar, "")
	_, err = store.Secret()
	require.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestSecretStore_UnsetAfterUseFails(t *testing.T) {
	env := newFakeEnv(map[string]string{secretEnvVar: "first"})
	store := token.NewSecretStore(secretEnvVar, token.WithLookup(env.Lookup))
	_, err := store.Secret()
	require.NoError(t, err)

	env.Unset(secretEnvVar)
	_, err = store.Secret()

	require.True(t, errors.Is(err, errors.ErrConfiguration), "a cached value must not outlive its source")
}

func TestSecretStore_ConcurrentReadsDuringRotation(t *testing.T) {
	env := newFakeEnv(map[string]string{secretEnvVar: "a"})
	store := token.NewSecretStore(secretEnvVar, token.WithLookup(env.Lookup))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%10 == 0 {
				env.Set(secretEnvVar, "b")
			}
			secret, err := store.Secret()
			assert.NoError(t, err)
			assert.Contains(t, []string{"a", "b"}, secret)
		}(i)
	}
	wg.Wait()

	secret, err := store.Secret()
	require.NoError(t, err)
	require.Equal(t, "b", secret)
}
