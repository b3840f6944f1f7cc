package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFileAndConsole(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	logger, err := New(Config{
		Level:      logrus.InfoLevel,
		OutputFile: path,
		JSONFormat: true,
		Console:    &console,
	})
	require.NoError(t, err)

	logger.WithField("function", "foo").Info("function analyzed")
	logger.Debug("hidden")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "foo", entry["function"])
	assert.Equal(t, "function analyzed", entry["msg"])
	assert.Equal(t, string(data), console.String())
	assert.Equal(t, path, logger.FilePath())
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0644))
	require.NoError(t, os.WriteFile(path+".1", []byte("older"), 0644))

	logger, err := New(Config{
		Level:      logrus.InfoLevel,
		OutputFile: path,
		MaxSize:    32,
		MaxBackups: 3,
		Console:    &bytes.Buffer{},
	})
	require.NoError(t, err)
	defer logger.Close()

	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Len(t, rotated, 64)

	older, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "older", string(older))
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l)

	l, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
