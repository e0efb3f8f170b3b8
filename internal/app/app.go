package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/nfcompose/internal/broadcast"
	"github.com/specialistvlad/nfcompose/internal/catalog"
	"github.com/specialistvlad/nfcompose/internal/config"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/model"
	"github.com/spf13/afero"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	fs        afero.Fs
	config    *Config
	loader    config.Loader
	catalog   *catalog.Catalog
	publisher broadcast.Publisher
}

// Option customizes an App.
type Option func(*App)

// WithFs replaces the OS filesystem, mainly for tests.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithPublisher sets where compiled DAGs are broadcast.
func WithPublisher(p broadcast.Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// NewApp is the constructor for the main application. User-facing output
// goes to outW and logs to logW. The catalog is loaded lazily.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		fs:     afero.NewOsFs(),
		config: cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.loader = model.NewLoader(a.fs)
	a.logger.Debug("Logger configured successfully.")
	return a
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Fs returns the filesystem the application reads and writes.
func (a *App) Fs() afero.Fs {
	return a.fs
}

// Out returns the writer for user-facing output.
func (a *App) Out() io.Writer {
	return a.outW
}
