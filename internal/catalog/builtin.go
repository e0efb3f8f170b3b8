package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
)

//go:embed manifests
var builtinFS embed.FS

// Builtin loads the process definitions shipped with the binary.
func Builtin(ctx context.Context) (*Catalog, error) {
	sub, err := fs.Sub(builtinFS, "manifests")
	if err != nil {
		return nil, fmt.Errorf("failed to open built-in manifests: %w", err)
	}
	return Load(ctx, afero.FromIOFS{FS: sub}, ".")
}

// LoadAll loads the built-in catalog, overlays every user directory in
// order, and validates the result.
func LoadAll(ctx context.Context, fsys afero.Fs, dirs ...string) (*Catalog, error) {
	cat, err := Builtin(ctx)
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		user, err := Load(ctx, fsys, dir)
		if err != nil {
			return nil, err
		}
		cat.Merge(user)
	}
	if err := Validate(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}
