package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(Config{Level: "debug", Format: "console", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	named := logger.Named("bank")
	assert.NotNil(t, named.Logger)
}

func TestNewLogger_BadFormat(t *testing.T) {
	_, err := NewLogger(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "json", config.Format)
	assert.False(t, config.Development)
}

func TestNewLogger_EmptyConfigUsesDefaults(t *testing.T) {
	logger, err := NewLogger(Config{})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
