package compiler

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("writes into a new directory", func(t *testing.T) {
		fsys := afero.NewMemMapFs()

		require.NoError(t, Emit(ctx, fsys, "/out/pipeline.nf", "workflow text"))

		got, err := afero.ReadFile(fsys, "/out/pipeline.nf")
		require.NoError(t, err)
		assert.Equal(t, "workflow text", string(got))

		entries, err := afero.ReadDir(fsys, "/out")
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary file left behind")
	})

	t.Run("replaces an existing file", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/pipeline.nf", []byte("old"), 0o644))

		require.NoError(t, Emit(ctx, fsys, "/pipeline.nf", "new"))

		got, err := afero.ReadFile(fsys, "/pipeline.nf")
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("read-only filesystem", func(t *testing.T) {
		fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())

		err := Emit(ctx, fsys, "/out/pipeline.nf", "text")
		require.Error(t, err)
	})
}

func TestCompileThenEmit_NothingWrittenOnFailure(t *testing.T) {
	fsys := afero.NewMemMapFs()

	res, err := New(builtin(t), Options{}).Compile(context.Background(), nil)
	require.Error(t, err)
	require.Nil(t, res)

	exists, err := afero.Exists(fsys, "/out/pipeline.nf")
	require.NoError(t, err)
	assert.False(t, exists)
}
