package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "WARN", Format: "json", Out: &buf})
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("model", "a").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "a", entry["model"])
	assert.Equal(t, "shown", entry["message"])
}

func TestSetupConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Out: &buf})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Info().Msg("batch started")
	assert.Contains(t, buf.String(), "batch started")
}

func TestSetupRejectsInvalidSettings(t *testing.T) {
	_, err := Setup(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = Setup(Config{Format: "xml"})
	assert.Error(t, err)
}
