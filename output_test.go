package boxpull

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputDir(t *testing.T) {
	t.Parallel()

	t.Run("accepts existing directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		out, err := ResolveOutputDir(dir)
		require.NoError(t, err)
		assert.False(t, out.Temporary)
		assert.True(t, filepath.IsAbs(out.Path))
	})

	t.Run("accepts non-empty directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "existing"), []byte("x"), 0o644))

		_, err := ResolveOutputDir(dir)
		require.NoError(t, err)
	})

	t.Run("rejects regular file", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "blob")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, err := ResolveOutputDir(file)
		assert.ErrorIs(t, err, ErrOutputIsFile)
	})

	t.Run("rejects nonexistent path", func(t *testing.T) {
		t.Parallel()
		_, err := ResolveOutputDir(filepath.Join(t.TempDir(), "missing", "deeper"))
		assert.Error(t, err)
	})
}

func TestTempOutputDir(t *testing.T) {
	t.Parallel()

	out, err := TempOutputDir()
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Remove() })

	assert.True(t, out.Temporary)
	assert.True(t, strings.HasPrefix(filepath.Base(out.Path), "boxpull_"))

	info, err := os.Stat(out.Path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Survives until explicitly removed.
	require.NoError(t, out.Remove())
	_, err = os.Stat(out.Path)
	assert.True(t, os.IsNotExist(err))
}
