package logging_test

import (
	"context"
	"testing"

	"logistics/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("should build a development logger", func(t *testing.T) {
		zl, logger, err := logging.New("development")
		require.NoError(t, err)
		require.NotNil(t, logger)

		assert.True(t, zl.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.Enabled(context.Background(), -4))
	})

	t.Run("should build a production logger at info level", func(t *testing.T) {
		zl, _, err := logging.New("production")
		require.NoError(t, err)

		assert.False(t, zl.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, zl.Core().Enabled(zapcore.InfoLevel))
	})
}

func TestFromZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.FromZap(zap.New(core))

	logger.With("component", "station_progress").InfoContext(t.Context(), "advanced orders", "count", 3)
	logger.Debug("dropped")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "advanced orders", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "station_progress", fields["component"])
	assert.EqualValues(t, 3, fields["count"])
}
