package logger_test

import (
	"testing"

	"swiftlogix/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Level(t *testing.T) {
	l, err := logger.New("prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	l, err = logger.New("dev", "debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New("dev", "loud")
	assert.Error(t, err)
}
