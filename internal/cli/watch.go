package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/nfcompose/internal/app"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
)

const watchDebounce = 200 * time.Millisecond

// change is what a batch of filesystem events asks the watcher to redo.
type change struct {
	pipeline bool
	catalog  bool
}

// watch builds once, then rebuilds every time the pipeline file or a
// catalog manifest changes until ctx is done. Catalog changes reload the
// catalog first. Build errors are passed to report and do not stop the loop.
func watch(ctx context.Context, a *app.App, debounce time.Duration, report func(error)) error {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	cfg := a.Config()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	pipeline := ""
	if cfg.PipelinePath != "" {
		pipeline = filepath.Clean(cfg.PipelinePath)
		// Editors replace files on save, so watch the directory.
		if err := fsw.Add(filepath.Dir(pipeline)); err != nil {
			return err
		}
	}
	catalogDirs := make([]string, 0, len(cfg.CatalogDirs))
	for _, dir := range cfg.CatalogDirs {
		dir = filepath.Clean(dir)
		catalogDirs = append(catalogDirs, dir)
		if err := addTree(fsw, dir); err != nil {
			return err
		}
	}
	if pipeline == "" && len(catalogDirs) == 0 {
		return &ExitError{Code: 2, Message: "nothing to watch: use a pipeline file or --catalog"}
	}

	_, err = a.Build(ctx)
	report(err)

	classify := func(ev fsnotify.Event) change {
		name := filepath.Clean(ev.Name)
		if name == pipeline {
			return change{pipeline: true}
		}
		if name == filepath.Clean(cfg.OutputPath) {
			return change{}
		}
		for _, dir := range catalogDirs {
			if !withinDir(dir, name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(name); err == nil && info.IsDir() {
					_ = addTree(fsw, name)
				}
			}
			switch filepath.Ext(name) {
			case ".hcl", ".nf":
				return change{catalog: true}
			}
		}
		return change{}
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var pending change

	logger.Info("Watching for changes.", "pipeline", pipeline, "catalog_dirs", catalogDirs)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			ch := classify(ev)
			if !ch.pipeline && !ch.catalog {
				continue
			}
			logger.Debug("Change detected.", "file", ev.Name, "op", ev.Op.String())
			pending.pipeline = pending.pipeline || ch.pipeline
			pending.catalog = pending.catalog || ch.catalog
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)

		case <-timer.C:
			if pending.catalog {
				if err := a.ReloadCatalog(ctx); err != nil {
					pending = change{}
					report(err)
					continue
				}
			}
			pending = change{}
			_, err := a.Build(ctx)
			report(err)
		}
	}
}

// addTree watches dir and every directory below it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
