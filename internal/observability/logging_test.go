package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/conquest/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: format})
		require.NoError(t, err, "format %q should be valid", format)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json"})
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewLogger_LevelIsHonoured(t *testing.T) {
	for level, debug := range map[string]bool{"debug": true, "info": false, "warn": false, "error": false} {
		logger, err := NewLogger(config.LoggingConfig{Level: level, Format: "json"})
		require.NoError(t, err, "level %q should be valid", level)
		assert.Equal(t, debug, logger.Core().Enabled(zapcore.DebugLevel), "level %q", level)
	}
}
