package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "debug", "json")
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	logger.WithField("route", "/api/me").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "/api/me", entry["route"])
}

func TestNewWithOutputUnknownLevel(t *testing.T) {
	logger := NewWithOutput(&bytes.Buffer{}, "loud", "text")
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*log.TextFormatter)
	assert.True(t, ok)
}
