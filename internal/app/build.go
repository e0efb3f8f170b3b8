package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/specialistvlad/nfcompose/internal/broadcast"
	"github.com/specialistvlad/nfcompose/internal/compiler"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/export"
	"github.com/specialistvlad/nfcompose/internal/nfconfig"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// Compile loads the catalog and pipeline and compiles the pipeline in
// memory. Nothing is written.
func (a *App) Compile(ctx context.Context) (*compiler.Result, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)

	cat, err := a.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	pipeline, err := a.Pipeline(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Compiling pipeline.", "pipeline", pipeline.Name, "connections", len(pipeline.Connections))

	res, err := compiler.Compile(ctx, cat, compiler.Options{AutoStatus: a.config.AutoStatus}, pipeline.Connections)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pipeline %s: %w", pipeline.Name, err)
	}
	return res, nil
}

// Build compiles the pipeline and writes the workflow together with its
// companion files. The companion files are written first and the workflow
// last, so a failed build never leaves a new workflow next to stale or
// missing companions. Nothing is written if compilation fails.
func (a *App) Build(ctx context.Context) (*compiler.Result, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Build method started.")

	if err := a.config.ValidateBuild(); err != nil {
		return nil, err
	}

	res, err := a.Compile(ctx)
	if err != nil {
		return nil, err
	}

	out := a.config.OutputPath
	var files *nfconfig.Files
	if !a.config.NoConfigs {
		files, err = nfconfig.Generate(res.Nodes, a.rawParams(res))
		if err != nil {
			return nil, fmt.Errorf("failed to generate configuration: %w", err)
		}
	}

	if !a.config.NoExport || files != nil {
		if err := a.fs.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory for %s: %w", out, err)
		}
	}
	if !a.config.NoExport {
		if err := export.Write(ctx, a.fs, out, res.Nodes, res.ForkTree); err != nil {
			return nil, err
		}
	}
	if files != nil {
		if err := nfconfig.Write(ctx, a.fs, filepath.Dir(out), files); err != nil {
			return nil, err
		}
	}

	if err := compiler.Emit(ctx, a.fs, out, res.Text); err != nil {
		return nil, err
	}

	if a.publisher != nil {
		a.publish(ctx, res)
	}

	logger.Info("Pipeline built.", "output", out, "processes", len(res.Nodes)-1)
	return res, nil
}

// rawParams collects the parameters of every raw input the pipeline reads.
func (a *App) rawParams(res *compiler.Result) []process.Param {
	var params []process.Param
	for _, in := range res.RawInputs {
		if def, ok := a.catalog.RawInput(in.Type); ok {
			params = append(params, def.Params...)
		}
	}
	return params
}

// publish sends the DAG to the viewer. A viewer that cannot be reached only
// produces a warning; the workflow is already on disk.
func (a *App) publish(ctx context.Context, res *compiler.Result) {
	logger := ctxlog.FromContext(ctx)

	dag, err := export.BuildDag(res.Nodes)
	if err != nil {
		logger.Warn("Failed to build DAG for broadcast.", "error", err)
		return
	}
	update := &broadcast.Update{
		Pipeline: a.config.OutputPath,
		Dag:      dag,
		ForkTree: export.ForkMap(res.ForkTree),
		Compiled: time.Now().UTC(),
	}
	if err := a.publisher.Publish(ctx, update); err != nil {
		logger.Warn("Failed to broadcast pipeline.", "error", err)
		return
	}
	logger.Info("Pipeline broadcast.", "event", broadcast.Event)
}
