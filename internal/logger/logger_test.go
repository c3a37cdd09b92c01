package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"TRACE":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestContextFields(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(obsCore))

	l.WithRun("run-1").WithMethod("parametric").Infow("bootstrap finished", "n_boot", 10)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "run-1", ctx["run_id"])
		assert.Equal(t, "parametric", ctx["method"])
		assert.Equal(t, int64(10), ctx["n_boot"])
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := t.TempDir() + "/mediate.log"
	l := New(Options{Level: "debug", Format: "json", Output: path})
	l.Debugw("hello", "k", "v")
	assert.NoError(t, l.Sync())
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.WithFields(map[string]interface{}{"a": 1}).Infow("dropped")
}
