package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/nfcompose/internal/app"
	"github.com/specialistvlad/nfcompose/internal/compiler"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a build run.
type HarnessResult struct {
	Dir       string
	LogOutput string
	Output    string
	Result    *compiler.Result
	Err       error
	App       *app.App
}

// Path returns the absolute path of a file relative to the harness directory.
func (r *HarnessResult) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

// ReadFile reads a file relative to the harness directory.
func (r *HarnessResult) ReadFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(r.Path(name))
	require.NoError(t, err)
	return string(data)
}

// WriteFiles writes files, keyed by slash-separated relative path, under dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// RunBuild writes files into a temporary directory and builds the pipeline
// described by cfg there. Relative paths in cfg are resolved against that
// directory. Logs are captured at debug level.
func RunBuild(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunBuildWithContext(context.Background(), t, files, cfg)
}

// RunBuildWithContext is RunBuild with a caller-provided context.
func RunBuildWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	WriteFiles(t, dir, files)

	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	cfg.PipelinePath = abs(cfg.PipelinePath)
	cfg.OutputPath = abs(cfg.OutputPath)
	for i, d := range cfg.CatalogDirs {
		cfg.CatalogDirs[i] = abs(d)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	outBuffer := &SafeBuffer{}
	a := app.NewApp(outBuffer, logBuffer, appConfig)

	res, err := a.Build(ctx)
	return &HarnessResult{
		Dir:       dir,
		LogOutput: logBuffer.String(),
		Output:    outBuffer.String(),
		Result:    res,
		Err:       err,
		App:       a,
	}
}
