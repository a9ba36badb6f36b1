// pkg/filesystem/filesystem_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Verify atomic writes and lock file acquisition

package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		data     string
	}{
		{name: "creates new file with parents", data: "hello"},
		{name: "replaces existing file", existing: "old", data: "new"},
		{name: "writes empty content", existing: "old", data: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewMemory()
			path := "/data/enzyme/state.json"
			if tt.existing != "" {
				require.NoError(t, afero.WriteFile(fs, path, []byte(tt.existing), 0644))
			}

			err := filesystem.WriteFileAtomic(fs, path, []byte(tt.data), 0644)
			require.NoError(t, err)

			got, err := afero.ReadFile(fs, path)
			require.NoError(t, err)
			assert.Equal(t, tt.data, string(got))

			entries, err := afero.ReadDir(fs, "/data/enzyme")
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file should not be left behind")
		})
	}
}

func TestWriteFileAtomic_RealDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	require.NoError(t, filesystem.WriteFileAtomic(filesystem.NewOS(), path, []byte("{}"), 0600))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteFileAtomic_ReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(filesystem.NewMemory())

	err := filesystem.WriteFileAtomic(fs, "/x/state.json", []byte("{}"), 0644)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirCreate))
}

func TestAcquireLock(t *testing.T) {
	ctx := context.Background()
	fs := filesystem.NewMemory()
	path := "/state/state.json.lock"

	lock, err := filesystem.AcquireLock(ctx, fs, path, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, path, lock.Path())

	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, exists)

	// A second attempt with no timeout fails immediately
	_, err = filesystem.AcquireLock(ctx, fs, path, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockTimeout))

	require.NoError(t, lock.Release())
	require.NoError(t, lock.Release(), "second release is a no-op")

	lock2, err := filesystem.AcquireLock(ctx, fs, path, 0, 0)
	require.NoError(t, err)
	require.NoError(t, lock2.Release())
}

func TestAcquireLock_WaitsForRelease(t *testing.T) {
	ctx := context.Background()
	fs := filesystem.NewMemory()
	path := "/state/state.json.lock"

	held, err := filesystem.AcquireLock(ctx, fs, path, 0, 0)
	require.NoError(t, err)

	go func() {
		time.Sleep(120 * time.Millisecond)
		_ = held.Release()
	}()

	lock, err := filesystem.AcquireLock(ctx, fs, path, 5*time.Second, 0)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestAcquireLock_BreaksStaleLock(t *testing.T) {
	ctx := context.Background()
	fs := filesystem.NewMemory()
	path := "/state/state.json.lock"

	require.NoError(t, afero.WriteFile(fs, path, []byte("12345\n"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, fs.Chtimes(path, old, old))

	lock, err := filesystem.AcquireLock(ctx, fs, path, 0, time.Minute)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestAcquireLock_StaleLockBeingBroken(t *testing.T) {
	ctx := context.Background()
	fs := filesystem.NewMemory()
	path := "/state/state.json.lock"

	require.NoError(t, afero.WriteFile(fs, path, []byte("12345\n"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, fs.Chtimes(path, old, old))
	// Another waiter is in the middle of breaking the stale lock
	require.NoError(t, afero.WriteFile(fs, path+".break", []byte("999\n"), 0644))

	_, err := filesystem.AcquireLock(ctx, fs, path, 0, time.Minute)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockTimeout))

	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, exists, "lock must be left for the breaker in progress")
}

func TestAcquireLock_StaleLockSingleWinner(t *testing.T) {
	ctx := context.Background()
	fs := filesystem.NewOS()
	path := filepath.Join(t.TempDir(), "state.json.lock")

	require.NoError(t, os.WriteFile(path, []byte("12345\n"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	var (
		mu        sync.Mutex
		holders   int
		maxHolder int
		wg        sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock, err := filesystem.AcquireLock(ctx, fs, path, 10*time.Second, time.Minute)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			holders++
			if holders > maxHolder {
				maxHolder = holders
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			assert.NoError(t, lock.Release())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxHolder)
	exists, err := afero.Exists(fs, path+".break")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAcquireLock_ContextCancelled(t *testing.T) {
	fs := filesystem.NewMemory()
	path := "/state/state.json.lock"

	held, err := filesystem.AcquireLock(context.Background(), fs, path, 0, 0)
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = filesystem.AcquireLock(ctx, fs, path, time.Minute, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
