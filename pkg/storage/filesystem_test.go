package storage

import (
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("nested/file.txt", []byte("hello"))
	require.NoError(t, err)

	f, err := store.Open("nested/file.txt")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = store.Open("missing.txt")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalStorageSize(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("a/one.txt", []byte("12345"))
	require.NoError(t, err)
	_, err = store.Save("a/b/two.txt", []byte("123"))
	require.NoError(t, err)

	size, err := store.Size("a")
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)

	size, err = store.Size("nope")
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestLocalStorageTreeRespectsDepth(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("backup_1/students.csv", []byte("x"))
	require.NoError(t, err)
	_, err = store.Save("backup_1/deep/more/file.csv", []byte("x"))
	require.NoError(t, err)

	entries, err := store.Tree(".", 2)
	require.NoError(t, err)

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.ElementsMatch(t, []string{"backup_1", "backup_1/deep", "backup_1/students.csv"}, paths)
	for _, e := range entries {
		if e.Path == "backup_1/students.csv" {
			assert.Equal(t, "  students.csv", e.Indented())
		}
	}
}
