package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TC-001", "TC_001"},
		{"Tools&Processes", "Tools_Processes"},
		{"plain123", "plain123"},
		{"a b/c.d", "a_b_c_d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in))
	}
}

func TestStoreSaveAndRemove(t *testing.T) {
	store, err := NewScreenshotStore(t.TempDir())
	require.NoError(t, err)

	filename, err := store.Save("TC_001_TL_Details_1700000000000", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "TC_001_TL_Details_1700000000000.png", filename)
	assert.True(t, store.Exists(filename))

	require.NoError(t, store.Remove(filename))
	assert.False(t, store.Exists(filename))
}

func TestStoreSave_CollisionAppendsSuffix(t *testing.T) {
	store, err := NewScreenshotStore(t.TempDir())
	require.NoError(t, err)

	base := "TC_001_TL_Details_1700000000000"

	first, err := store.Save(base, []byte("one"))
	require.NoError(t, err)
	second, err := store.Save(base, []byte("two"))
	require.NoError(t, err)
	third, err := store.Save(base, []byte("three"))
	require.NoError(t, err)

	assert.Equal(t, base+".png", first)
	assert.Equal(t, base+"_2.png", second)
	assert.Equal(t, base+"_3.png", third)

	data, err := os.ReadFile(filepath.Join(store.Root(), second))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data), "collision must not overwrite existing files")
}

func TestStoreRemove_MissingFileIsNotFatal(t *testing.T) {
	store, err := NewScreenshotStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove("never-written.png"))
}

func TestStoreRemove_IgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewScreenshotStore(filepath.Join(dir, "shots"))
	require.NoError(t, err)

	outside := filepath.Join(dir, "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0644))

	require.NoError(t, store.Remove("../outside.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err, "files outside the store root must not be touched")
}
