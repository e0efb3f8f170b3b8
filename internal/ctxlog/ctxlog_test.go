package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("returns the embedded logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		ctx := WithLogger(context.Background(), logger)
		got := FromContext(ctx)
		require.Same(t, logger, got)

		got.Info("hello", "lane", 1)
		assert.Contains(t, buf.String(), "lane=1")
	})

	t.Run("falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("ignores a nil logger", func(t *testing.T) {
		ctx := WithLogger(context.Background(), nil)
		assert.Same(t, slog.Default(), FromContext(ctx))
	})
}
