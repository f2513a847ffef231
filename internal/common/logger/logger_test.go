// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestZapWrapper_FieldsAreCarried(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	child := log.WithFields(map[string]interface{}{"taskType": "generate-seasonal-story"})
	child.WithError(errors.New("boom")).Warn("fallback used", map[string]interface{}{
		"source": "weather",
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "fallback used", entries[0].Message)
		assert.Equal(t, "generate-seasonal-story", ctx["taskType"])
		assert.Equal(t, "weather", ctx["source"])
		assert.Equal(t, "boom", ctx["error"])
	}
}

func TestZapWrapper_WithNilErrorIsNoop(t *testing.T) {
	log := NewNoOpLogger()
	assert.Equal(t, log, log.WithError(nil))
}
