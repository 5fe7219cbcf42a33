// Package logger builds the application's structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted by New.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// toZapLevel converts a textual level. Unknown levels fall back to info.
func toZapLevel(level string) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newConsoleCore(ws zapcore.WriteSyncer, level zapcore.Level) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(ws), zap.NewAtomicLevelAt(level))
}

// New returns a console logger on stdout at the given level.
func New(level string) *Logger {
	return NewWithSyncer(zapcore.AddSync(os.Stdout), level)
}

// NewWithSyncer returns a console logger writing to ws.
func NewWithSyncer(ws zapcore.WriteSyncer, level string) *Logger {
	return &Logger{SugaredLogger: zap.New(newConsoleCore(ws, toZapLevel(level))).Sugar()}
}

// Level maps the debug switch to a level name.
func Level(debug bool) string {
	if debug {
		return DebugLevel
	}
	return InfoLevel
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{SugaredLogger: l.With("component", name)}
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
