// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// FindFiles recursively searches rootPath for files whose path relative to
// rootPath matches the doublestar pattern (e.g. "**/*.hcl"). When rootPath
// is itself a file, it is returned if its base name matches. Results are
// sorted so that load order never depends on the directory listing.
func FindFiles(fsys afero.Fs, rootPath string, pattern string) ([]string, error) {
	if pattern == "" {
		panic("pattern must not be empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	info, err := fsys.Stat(rootPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		ok, _ := doublestar.Match(filepath.Base(pattern), filepath.Base(rootPath))
		if !ok {
			return nil, nil
		}
		return []string{rootPath}, nil
	}

	var files []string
	err = afero.Walk(fsys, rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
