package lsp_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/kralicky/robotsls/pkg/lsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicLeveler(t *testing.T) {
	var leveler lsp.AtomicLeveler
	assert.Equal(t, "info", leveler.String())
	assert.Equal(t, "level", leveler.Type())

	require.NoError(t, leveler.Set("WARNING"))
	assert.Equal(t, slog.LevelWarn, leveler.Level())
	assert.Equal(t, "warn", leveler.String())

	assert.Error(t, leveler.Set("verbose"))
	assert.Equal(t, slog.LevelWarn, leveler.Level())
}

func TestNewLoggerFollowsGlobalLevel(t *testing.T) {
	previous := lsp.GlobalAtomicLeveler.Level()
	t.Cleanup(func() { lsp.GlobalAtomicLeveler.SetLevel(previous) })

	var buf bytes.Buffer
	logger := lsp.NewLogger(&buf)
	lsp.GlobalAtomicLeveler.SetLevel(slog.LevelError)
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	lsp.GlobalAtomicLeveler.SetLevel(slog.LevelDebug)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
