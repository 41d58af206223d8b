package store

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(map[string]any{"user": "u"})

	require.NoError(t, s.Set(ctx, map[string]any{"token": "T", "user": "v"}))

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"token": "T", "user": "v"}, all)

	// returned map is a copy
	all["token"] = "mutated"
	again, _ := s.All(ctx)
	assert.Equal(t, "T", again["token"])

	require.NoError(t, s.Delete(ctx, "token"))
	require.NoError(t, s.Delete(ctx, "missing"))
	assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)

	all, _ = s.All(ctx)
	assert.Equal(t, map[string]any{"user": "v"}, all)
}

func TestMemoryStore_SeedIsCopied(t *testing.T) {
	seed := map[string]any{"a": 1}
	s := NewMemoryStore(seed)
	seed["b"] = 2

	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, all)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore(nil)

	_, err := s.All(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Set(ctx, map[string]any{"a": 1}), context.Canceled)
}

func TestNewFileStore_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     FileStoreConfig
		wantErr bool
	}{
		{"empty name", FileStoreConfig{Name: "", Dir: t.TempDir()}, true},
		{"blank name", FileStoreConfig{Name: "   \n ", Dir: t.TempDir()}, true},
		{"path separator", FileStoreConfig{Name: "a/b", Dir: t.TempDir()}, true},
		{"dot dot", FileStoreConfig{Name: "..", Dir: t.TempDir()}, true},
		{"valid", FileStoreConfig{Name: "my-app", Dir: t.TempDir()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewFileStore(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(tt.cfg.Dir, "my-app", RecordFileName), s.Path())
		})
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, err := NewFileStore(FileStoreConfig{Name: "app", Dir: t.TempDir()})
	require.NoError(t, err)

	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(FileStoreConfig{Name: "app", Dir: dir})
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, map[string]any{"token": "T", "scope": "read"}))
	require.NoError(t, first.Set(ctx, map[string]any{"token": "T2"}))
	require.NoError(t, first.Delete(ctx, "scope"))

	second, err := NewFileStore(FileStoreConfig{Name: "app", Dir: dir})
	require.NoError(t, err)
	all, err := second.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"token": "T2"}, all)
}

func TestFileStore_Permissions(t *testing.T) {
	s, err := NewFileStore(FileStoreConfig{Name: "app", Dir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), map[string]any{"token": "T"}))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	_, err = os.Stat(s.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestFileStore_DeleteMissingKeyDoesNotCreateFile(t *testing.T) {
	s, err := NewFileStore(FileStoreConfig{Name: "app", Dir: t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "token"))
	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_MalformedFile(t *testing.T) {
	s, err := NewFileStore(FileStoreConfig{Name: "app", Dir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("token: [unterminated"), 0600))

	_, err = s.All(context.Background())
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), map[string]any{"a": 1}))
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	s, err := NewFileStore(FileStoreConfig{Name: "app", Dir: t.TempDir()})
	require.NoError(t, err)

	var calls atomic.Int32
	w := NewWatcher(s, func() { calls.Add(1) })
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, s.Set(context.Background(), map[string]any{"token": "T"}))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	s, err := NewFileStore(FileStoreConfig{Name: "app", Dir: t.TempDir()})
	require.NoError(t, err)

	w := NewWatcher(s, nil)
	require.NoError(t, w.Start())
	require.NoError(t, w.Start())
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
