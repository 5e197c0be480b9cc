package logger

import (
	"bytes"
	"testing"

	"github.com/jxo-me/dduckdns/core/logger"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(
		OutputLoggerOption(&buf),
		FormatLoggerOption(logger.JSONFormat),
		LevelLoggerOption(logger.InfoLevel),
	)

	log.WithFields(map[string]any{"domain": "foo"}).Infof("updated %s", "foo")

	var entry map[string]any
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "foo", entry["domain"])
	assert.Equal(t, "updated foo", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(
		OutputLoggerOption(&buf),
		FormatLoggerOption(logger.TextFormat),
		LevelLoggerOption(logger.WarnLevel),
	)

	log.Debug("hidden")
	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, logger.WarnLevel, log.GetLevel())
	assert.False(t, log.IsLevelEnabled(logger.DebugLevel))
	assert.True(t, log.IsLevelEnabled(logger.ErrorLevel))
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger(OutputLoggerOption(&bytes.Buffer{}), LevelLoggerOption("loud"))
	assert.Equal(t, logger.InfoLevel, log.GetLevel())
}
