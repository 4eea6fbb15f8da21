package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface the rest of the module depends on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Package-level logger to be used by the binaries after Init.
var S *zap.SugaredLogger

// ZapLogger implements Logger on top of a zap.Logger.
type ZapLogger struct {
	l *zap.Logger
}

// Init initializes the zap logger using settings from config.
func Init(cfg *config.Config) (*ZapLogger, error) {
	return InitWriter(cfg, os.Stdout)
}

// InitWriter is Init writing to w, e.g. stderr for CLIs whose stdout carries results.
func InitWriter(cfg *config.Config, w io.Writer) (*ZapLogger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		ParseLevel(cfg.LogLevel),
	)

	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	S = l.Sugar()
	return &ZapLogger{l: l}, nil
}

// New wraps an existing zap.Logger.
func New(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{l: l}
}

// ParseLevel maps a config string onto a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return encoderCfg
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// Zap exposes the underlying logger for middleware that wants typed fields.
func (z *ZapLogger) Zap() *zap.Logger { return z.l }

func (z *ZapLogger) InfoObj(msg, key string, obj interface{}) {
	z.l.Info(msg, zap.Any(key, obj))
}

func (z *ZapLogger) DebugObj(msg, key string, obj interface{}) {
	z.l.Debug(msg, zap.Any(key, obj))
}

func (z *ZapLogger) WarnObj(msg, key string, obj interface{}) {
	z.l.Warn(msg, zap.Any(key, obj))
}

func (z *ZapLogger) ErrorObj(msg, key string, obj interface{}) {
	z.l.Error(msg, zap.Any(key, obj))
}

// NopLogger discards everything.
type NopLogger struct{}

func (*NopLogger) InfoObj(string, string, interface{})  {}
func (*NopLogger) DebugObj(string, string, interface{}) {}
func (*NopLogger) WarnObj(string, string, interface{})  {}
func (*NopLogger) ErrorObj(string, string, interface{}) {}

// Ensure returns log, or a NopLogger when log is nil.
func Ensure(log Logger) Logger {
	if log == nil {
		return &NopLogger{}
	}
	return log
}

// Minimal object logging helpers -------------------------------------------------
// These log through the package-level logger set by Init and are no-ops before it.
func InfoObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Info(msg, zap.Any(key, obj))
}

func ErrorObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Error(msg, zap.Any(key, obj))
}
