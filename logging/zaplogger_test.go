package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewDevLogger(t *testing.T) {
	logger := NewDevLogger()
	require.NotNil(t, logger)
	assert.IsType(t, &ZapLogger{}, logger)
}

func TestNewProdLogger(t *testing.T) {
	logger := NewProdLogger()
	require.NotNil(t, logger)
	assert.IsType(t, &ZapLogger{}, logger)
}

func TestZapLoggerLevels(t *testing.T) {
	core, obs := observer.New(zap.DebugLevel)
	logger := &ZapLogger{z: zap.New(core).Sugar()}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	require.Equal(t, 4, obs.Len())
	entries := obs.All()
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
}

func TestZapLoggerStructured(t *testing.T) {
	core, obs := observer.New(zap.InfoLevel)
	logger := &ZapLogger{z: zap.New(core).Sugar()}

	logger.Infow("info message", "key", "value")
	require.Equal(t, 1, obs.Len())
	entry := obs.All()[0]
	assert.Equal(t, "info message", entry.Message)
	assert.Contains(t, entry.Context, zap.String("key", "value"))
}

func TestZapLoggerFormatted(t *testing.T) {
	core, obs := observer.New(zap.InfoLevel)
	logger := &ZapLogger{z: zap.New(core).Sugar()}

	logger.Infof("info: %s %d", "test", 42)
	require.Equal(t, 1, obs.Len())
	assert.Equal(t, "info: test 42", obs.All()[0].Message)
}

func TestZapLoggerNamed(t *testing.T) {
	core, obs := observer.New(zap.InfoLevel)
	logger := &ZapLogger{z: zap.New(core).Sugar()}

	named := logger.Named("connect")
	require.IsType(t, &ZapLogger{}, named)

	named.Info("test message")
	require.Equal(t, 1, obs.Len())
	assert.Equal(t, "connect", obs.All()[0].LoggerName)
}

func TestZapLoggerWith(t *testing.T) {
	core, obs := observer.New(zap.InfoLevel)
	logger := &ZapLogger{z: zap.New(core).Sugar()}

	withFields := logger.With("provider", "github")
	withFields.Info("test message")
	require.Equal(t, 1, obs.Len())
	assert.Contains(t, obs.All()[0].Context, zap.String("provider", "github"))
}
