package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New("debug", "json", buf)
	Component(logger, "importer").WithField("run_id", "r1").Debug("row created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "importer", line["component"])
	assert.Equal(t, "r1", line["run_id"])
	assert.Equal(t, "row created", line["msg"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	logger := New("chatty", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
