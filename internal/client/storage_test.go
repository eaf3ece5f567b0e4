package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/model"
)

func TestStores(t *testing.T) {
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set("k", []byte(`{"a":1}`)))
			v, ok, err := store.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"a":1}`, string(v))

			require.NoError(t, store.Delete("k"))
			require.NoError(t, store.Delete("k"))
			_, ok, err = store.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, NewSession(first).Set("tok", &model.User{ID: "u1", Email: "a@b.c"}))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	state, ok := NewSession(second).Load()
	require.True(t, ok)
	assert.Equal(t, "tok", state.Token)
	assert.Equal(t, "u1", state.User.ID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StateFile, entries[0].Name())
}

func TestFileStore_RejectsNonJSON(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, store.Set("k", []byte("plain")))
}

func TestFileStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFile), []byte("{broken"), 0o600))
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, _, err = store.Get("k")
	assert.Error(t, err)
	_, ok := NewSession(store).Load()
	assert.False(t, ok)
}

func TestFileStore_ConcurrentWriters(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Set(fmt.Sprintf("k%d", i), []byte(fmt.Sprintf("%d", i))))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		v, ok, err := store.Get(fmt.Sprintf("k%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("%d", i), string(v))
	}
}

func TestSession(t *testing.T) {
	session := NewSession(NewMemoryStore())

	_, ok := session.Load()
	assert.False(t, ok)

	assert.Error(t, session.Set("", &model.User{ID: "u1"}))
	assert.Error(t, session.Set("tok", nil))
	_, ok = session.Load()
	assert.False(t, ok)

	require.NoError(t, session.Set("tok", &model.User{ID: "u1"}))
	state, ok := session.Load()
	require.True(t, ok)
	assert.Equal(t, "tok", state.Token)

	require.NoError(t, session.Clear())
	_, ok = session.Load()
	assert.False(t, ok)
}
