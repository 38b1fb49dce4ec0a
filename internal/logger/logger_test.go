package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Production(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0, true)

	l.With("component", "auth").Info("user logged in", "user_id", "42")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "user logged in", record["msg"])
	assert.Equal(t, "auth", record["component"])
	assert.Equal(t, "42", record["user_id"])
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 4, false)

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
