package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"bogus":    zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, toZapLevel(in), in)
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, Level(true))
	assert.Equal(t, InfoLevel, Level(false))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithSyncer(zapcore.AddSync(&buf), InfoLevel)

	l.Debugw("hidden")
	l.Component("control").Infow("device on", "mode", "DEHUMIDIFY")
	_ = l.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "device on")
	assert.Contains(t, out, `"component": "control"`)
	assert.Contains(t, out, `"mode": "DEHUMIDIFY"`)
}
