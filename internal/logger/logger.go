// Package logger builds the zap loggers used across the application.
// Every entry is a single JSON object per line with a "ts" field formatted
// as RFC3339Nano in the configured location.
package logger

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger writing to stdout at the given level.
// Unknown level names fall back to info.
func New(level string, loc *time.Location) *zap.Logger {
	return NewWithWriter(os.Stdout, level, loc)
}

// NewWithWriter returns a JSON logger writing to w.
func NewWithWriter(w io.Writer, level string, loc *time.Location) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(EncoderConfig(loc)),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core)
}

// EncoderConfig is the shared encoder configuration.
func EncoderConfig(loc *time.Location) zapcore.EncoderConfig {
	if loc == nil {
		loc = time.UTC
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.MessageKey = "msg"
	cfg.LevelKey = "level"
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(time.RFC3339Nano))
	}
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	return cfg
}
