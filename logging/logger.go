package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the leveled, structured logging interface the ICP driver and
// cmd/icpalign log through. Key-value pairs follow zap's SugaredLogger
// convention (alternating key, value arguments).
type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
	Errorw(msg string, kv ...interface{})
	// Named returns a child logger that prefixes its name to every message.
	Named(name string) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger at the given minimum level, writing human-readable
// (development) output to stderr — appropriate for a CLI tool, unlike the
// teacher's JSON-to-cloud-appender pipeline.
func New(level Level) Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(level))
	l, err := cfg.Build()
	if err != nil {
		// zap.NewDevelopmentConfig().Build() only fails on a broken sink
		// configuration; stderr is always available, so fall back to a
		// no-op logger rather than panicking a CLI tool over logging setup.
		l = zap.NewNop()
	}
	return &zapLogger{sugar: l.Sugar()}
}

func toZapLevel(l Level) zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *zapLogger) Debugw(msg string, kv ...interface{}) { z.sugar.Debugw(msg, kv...) }
func (z *zapLogger) Infow(msg string, kv ...interface{})  { z.sugar.Infow(msg, kv...) }
func (z *zapLogger) Warnw(msg string, kv ...interface{})  { z.sugar.Warnw(msg, kv...) }
func (z *zapLogger) Errorw(msg string, kv ...interface{}) { z.sugar.Errorw(msg, kv...) }

func (z *zapLogger) Named(name string) Logger {
	return &zapLogger{sugar: z.sugar.Named(name)}
}
