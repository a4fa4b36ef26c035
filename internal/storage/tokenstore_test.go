package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	return NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
}

func TestTokenStore_SetAndGet(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Set(KeyAccess, "tok-123"))
	require.NoError(t, store.Set(KeyRefresh, "ref-456"))

	assert.Equal(t, "tok-123", store.Get(KeyAccess))
	assert.Equal(t, "ref-456", store.Get(KeyRefresh))
	assert.Equal(t, "tok-123", store.Access())
}

func TestTokenStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	assert.Equal(t, "", store.Get(KeyAccess))
}

func TestTokenStore_SetAll(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.SetAll(map[string]string{
		KeyAccess:   "a",
		KeyRefresh:  "r",
		KeyUserInfo: `{"username":"amy"}`,
	}))

	assert.Equal(t, "a", store.Get(KeyAccess))
	assert.Equal(t, "r", store.Get(KeyRefresh))
	assert.Equal(t, `{"username":"amy"}`, store.Get(KeyUserInfo))
}

func TestTokenStore_FreshReadAcrossInstances(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.json")
	writer := NewTokenStore(path)
	reader := NewTokenStore(path)

	require.NoError(t, writer.Set(KeyAccess, "first"))
	assert.Equal(t, "first", reader.Access())

	require.NoError(t, writer.Set(KeyAccess, "second"))
	assert.Equal(t, "second", reader.Access(), "values must be re-read from disk on every access")
}

func TestTokenStore_Delete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.SetAll(map[string]string{KeyAccess: "a", KeyRefresh: "r"}))
	require.NoError(t, store.Delete(KeyAccess))

	assert.Equal(t, "", store.Get(KeyAccess))
	assert.Equal(t, "r", store.Get(KeyRefresh))
}

func TestTokenStore_ClearWipesWholesale(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.SetAll(map[string]string{KeyAccess: "a", KeyRefresh: "r", KeyUserInfo: "{}"}))
	require.NoError(t, store.Clear())

	assert.Equal(t, "", store.Get(KeyAccess))
	assert.Equal(t, "", store.Get(KeyRefresh))
	assert.Equal(t, "", store.Get(KeyUserInfo))

	// Clearing an already-empty store is not an error.
	require.NoError(t, store.Clear())
}

func TestTokenStore_FilePermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewTokenStore(path)
	require.NoError(t, store.Set(KeyAccess, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
