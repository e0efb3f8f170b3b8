package compiler

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/spf13/afero"
)

// Emit writes text to path through fsys. The file is first written next to
// its destination and then renamed over it, so a reader never sees a partial
// workflow.
func Emit(ctx context.Context, fsys afero.Fs, path, text string) error {
	logger := ctxlog.FromContext(ctx).With("path", path)

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to move workflow into place at %s: %w", path, err)
	}

	logger.Info("Workflow written.", "bytes", len(text))
	return nil
}
