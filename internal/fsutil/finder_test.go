package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"/cat/b.hcl",
		"/cat/a.hcl",
		"/cat/nested/deep/c.hcl",
		"/cat/nested/fragment.nf",
		"/cat/readme.md",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("x"), 0o644))
	}

	t.Run("recursive pattern", func(t *testing.T) {
		files, err := FindFiles(fs, "/cat", "**/*.hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.FromSlash("/cat/a.hcl"),
			filepath.FromSlash("/cat/b.hcl"),
			filepath.FromSlash("/cat/nested/deep/c.hcl"),
		}, files)
	})

	t.Run("shallow pattern", func(t *testing.T) {
		files, err := FindFiles(fs, "/cat", "*.hcl")
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("single file root", func(t *testing.T) {
		files, err := FindFiles(fs, "/cat/a.hcl", "**/*.hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{"/cat/a.hcl"}, files)

		files, err = FindFiles(fs, "/cat/readme.md", "**/*.hcl")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindFiles(fs, "/nope", "**/*.hcl")
		assert.Error(t, err)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := FindFiles(fs, "/cat", "[")
		assert.ErrorContains(t, err, "invalid glob pattern")
	})

	t.Run("empty pattern panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFiles(fs, "/cat", "") })
	})
}
