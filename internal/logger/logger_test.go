package logger

import (
	"testing"

	"github.com/georgemunganga/vendorhub-backend/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New(config.LoggerConfig{Level: "warn", Encoding: "console"})
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(zapcore.InfoLevel))
	require.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = New(config.LoggerConfig{Level: "loud"})
	require.Error(t, err)
}
