// Package logging builds the process logger: a zap core exposed through log/slog.
package logging

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const productionEnv = "production"

// New returns the zap logger (flush it with Sync on shutdown) and an slog logger
// writing through the same core.
//
// The production environment logs JSON at info level; every other environment
// logs colored console output at debug level.
func New(environment string) (*zap.Logger, *slog.Logger, error) {
	var config zap.Config

	if environment == productionEnv {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"

	zl, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, nil, err
	}

	return zl, FromZap(zl), nil
}

// FromZap wraps an existing zap logger, mainly for tests using zaptest or observer cores.
func FromZap(zl *zap.Logger) *slog.Logger {
	return slog.New(zapslog.NewHandler(zl.Core(), zapslog.WithCaller(true)))
}
