package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used throughout rotviz.
type Logger interface {
	SetLevel(level Level)
	GetLevel() Level
	Level() zapcore.Level
	Sublogger(subname string) Logger
	AddAppender(appender Appender)
	Sync() error

	// Desugar bridges to APIs that take a zap logger.
	Desugar() *zap.Logger

	Debug(args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	// CDebugw also logs when ctx has debug mode enabled, regardless of the logger's level.
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}
