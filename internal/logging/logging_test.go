package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

	logger.Info().Str("document_id", "doc-1").Msg("service.Extract: done")
	logger.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "doc-1", entry["document_id"])
	assert.Equal(t, "service.Extract: done", entry["message"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "debug", Format: "console"}, &buf)

	logger.Debug().Str("field", "last_name").Msg("correction.SaveField: field saved")

	out := buf.String()
	assert.Contains(t, out, "correction.SaveField: field saved")
	assert.Contains(t, out, "last_name")
	assert.Equal(t, log.DebugLevel, logger.Level)
}
