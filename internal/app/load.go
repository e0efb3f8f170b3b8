package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nfcompose/internal/catalog"
	"github.com/specialistvlad/nfcompose/internal/config"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/model"
)

// Catalog returns the process catalog, loading the built-in manifests and
// every configured catalog directory on first use.
func (a *App) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}
	if err := a.ReloadCatalog(ctx); err != nil {
		return nil, err
	}
	return a.catalog, nil
}

// ReloadCatalog reads the catalog again, replacing the cached one only when
// loading succeeds.
func (a *App) ReloadCatalog(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading catalog...", "catalog_dirs", a.config.CatalogDirs)

	cat, err := catalog.LoadAll(ctx, a.fs, a.config.CatalogDirs...)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	a.catalog = cat
	logger.Debug("Catalog ready.", "processes", len(cat.Names()))
	return nil
}

// Pipeline returns the configured pipeline, read from the pipeline file or
// built from the inline recipe.
func (a *App) Pipeline(ctx context.Context) (*config.Pipeline, error) {
	if err := a.config.ValidateSource(); err != nil {
		return nil, err
	}
	if a.config.PipelinePath != "" {
		return a.loader.Load(ctx, a.config.PipelinePath)
	}

	conns, err := model.ParseRecipe(a.config.Recipe)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Recipe parsed.", "connections", len(conns))
	return &config.Pipeline{Name: "recipe", Source: a.config.Recipe, Connections: conns}, nil
}
