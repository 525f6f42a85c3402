package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		enabled zapcore.Level
	}{
		{"debug console", "debug", "console", zapcore.DebugLevel},
		{"info json", "info", "json", zapcore.InfoLevel},
		{"warn json", "warn", "json", zapcore.WarnLevel},
		{"error console", "error", "console", zapcore.ErrorLevel},
		{"unknown level defaults to info", "verbose", "json", zapcore.InfoLevel},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			log, err := New(test.level, test.format, "test")
			require.NoError(t, err)

			assert.True(t, log.Core().Enabled(test.enabled))
			if test.enabled > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(test.enabled-1))
			}
		})
	}
}

func TestNewUnnamed(t *testing.T) {
	log, err := New("info", "console", "")
	require.NoError(t, err)
	assert.NotNil(t, log)
}
