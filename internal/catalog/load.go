package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/fsutil"
	"github.com/specialistvlad/nfcompose/internal/model"
	"github.com/spf13/afero"
)

// manifestPattern selects manifest files below a catalog root.
const manifestPattern = "**/*.hcl"

// Load reads every manifest below root into a new Catalog. A process or raw
// input defined twice within the same root is an error; all problems found
// are reported together.
func Load(ctx context.Context, fsys afero.Fs, root string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx).With("path", root)
	logger.Debug("Catalog loading definitions...")

	filePaths, err := fsutil.FindFiles(fsys, root, manifestPattern)
	if err != nil {
		logger.Error("Failed to walk catalog directory", "error", err)
		return nil, fmt.Errorf("failed to read catalog %s: %w", root, err)
	}

	cat := New()
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path")
		return cat, nil
	}
	logger.Debug("Found HCL files to load", "files", filePaths)

	parser := hclparse.NewParser()
	processSources := make(map[string]string)
	rawSources := make(map[string]string)
	var result *multierror.Error

	for _, filePath := range filePaths {
		src, err := afero.ReadFile(fsys, filePath)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to read %s: %w", filePath, err))
			continue
		}

		hclFile, diags := parser.ParseHCL(src, filePath)
		if diags.HasErrors() {
			result = multierror.Append(result, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags))
			continue
		}

		file, diags := model.ParseFile(ctx, hclFile, filePath)
		if diags.HasErrors() {
			result = multierror.Append(result, fmt.Errorf("failed to process definitions in %s: %w", filePath, diags))
			continue
		}

		for _, def := range file.Processes {
			if prev, dup := processSources[def.Name]; dup {
				result = multierror.Append(result, fmt.Errorf("process %q is defined in both %s and %s", def.Name, prev, filePath))
				continue
			}
			processSources[def.Name] = filePath

			fragment, err := resolveFragment(fsys, def)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			cat.Put(def, fragment)
		}

		for _, def := range file.RawInputs {
			if prev, dup := rawSources[def.Type]; dup {
				result = multierror.Append(result, fmt.Errorf("raw input %q is defined in both %s and %s", def.Type, prev, filePath))
				continue
			}
			rawSources[def.Type] = filePath
			cat.PutRawInput(def)
		}

		logger.Debug("Successfully loaded definitions from HCL file", "file", filePath)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	logger.Info("Catalog loaded successfully.", "processes", len(cat.entries), "raw_inputs", len(cat.rawInputs))
	return cat, nil
}

// resolveFragment returns the inline fragment or reads the fragment file
// relative to the manifest that declared it.
func resolveFragment(fsys afero.Fs, def *model.Process) (string, error) {
	if def.FragmentFile == "" {
		return def.Fragment, nil
	}

	path := def.FragmentFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(def.FSInformation.Dir(), path)
	}

	src, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("process %q: failed to read fragment file: %w", def.Name, err)
	}
	return string(src), nil
}
