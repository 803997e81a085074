package logging

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/inventory-tracker/internal/config"
)

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "console"}, &buf)
	require.NoError(t, err)

	sugar := logger.Sugar()
	sugar.Infof("Apple stock: %d", 7)
	sugar.Warnf("Item '%s' not found, cannot remove.", "orange")
	sugar.Errorf("Error adding item: %s", "bad")
	sugar.Debugf("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - (INFO|WARNING|ERROR) - (.*)$`)
	want := [][2]string{
		{"INFO", "Apple stock: 7"},
		{"WARNING", "Item 'orange' not found, cannot remove."},
		{"ERROR", "Error adding item: bad"},
	}
	for i, line := range lines {
		m := pattern.FindStringSubmatch(line)
		require.NotNil(t, m, "line %q", line)
		assert.Equal(t, want[i][0], m[1])
		assert.Equal(t, want[i][1], m[2])
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Sugar().Infof("quiet")
	logger.Sugar().Warnf("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Sugar().Warnf("low on %s", "banana")

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARNING", entry["level"])
	assert.Equal(t, "low on banana", entry["msg"])
	assert.NotEmpty(t, entry["time"])
}

func TestNew_InvalidSettings(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud", Format: "console"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New(config.LoggingConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
