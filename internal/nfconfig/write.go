package nfconfig

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/spf13/afero"
)

// Write stores every configuration file in dir.
func Write(ctx context.Context, fsys afero.Fs, dir string, files *Files) error {
	logger := ctxlog.FromContext(ctx)
	for _, f := range []struct {
		name    string
		content string
	}{
		{ParamsFile, files.Params},
		{ResourcesFile, files.Resources},
		{ContainersFile, files.Containers},
	} {
		path := filepath.Join(dir, f.name)
		if err := afero.WriteFile(fsys, path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Debug("Configuration written.", "path", path)
	}
	return nil
}
