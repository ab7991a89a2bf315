package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", false, &buf)
	require.NoError(t, err)

	logger.Debug().Int("games", 3).Msg("training")
	logger.Trace().Msg("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "training", line["message"])
	assert.EqualValues(t, 3, line["games"])
	assert.Contains(t, line, "time")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(" WARN ", false, &buf)
	require.NoError(t, err)
	logger.Info().Msg("skipped")
	assert.Zero(t, buf.Len())

	logger, err = New("", true, &buf)
	require.NoError(t, err)
	logger.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	_, err = New("loud", false, &buf)
	assert.Error(t, err)
}
