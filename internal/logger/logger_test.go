package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}

	for input, want := range tests {
		log, err := New(input, "json")
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(want), "level %q should enable %s", input, want)
		if want > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(want-1), "level %q should not enable %s", input, want-1)
		}
	}
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "abc", TruncateForLog("abc", 5))
	assert.Equal(t, "ab…", TruncateForLog("abc", 2))
	assert.Equal(t, "çã…", TruncateForLog("çãõ", 2))
	assert.Equal(t, "abc", TruncateForLog("abc", 0))
}
