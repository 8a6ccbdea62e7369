package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"fatal", LevelFatal},
		{"off", LevelSilent},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelRoundTrip(t *testing.T) {
	for _, level := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal} {
		assert.Equal(t, level, fromZapLevel(toZapLevel(level)))
		assert.Equal(t, level, ParseLevel(levelName(level)))
	}
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestNewWithConfig_WritesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicle.log")
	logger, err := NewWithConfig(Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	id := uuid.New()
	logger.With(GUID("vehicle", id)).Info("Passenger boarded",
		Seat(2),
		Bool("main_rider", true),
		Uint32("entry", 1000),
		Duration("despawn", time.Second),
		Error(errors.New("boom")),
	)
	logger.Debug("Debug line")
	require.NoError(t, logger.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "Passenger boarded", lines[0]["msg"])
	assert.Equal(t, id.String(), lines[0]["vehicle"])
	assert.EqualValues(t, 2, lines[0]["seat"])
	assert.Equal(t, true, lines[0]["main_rider"])
	assert.EqualValues(t, 1000, lines[0]["entry"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Equal(t, "Debug line", lines[1]["msg"])
}

func TestLogger_SetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicle.log")
	logger, err := NewWithConfig(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, logger.GetLevel())

	logger.Log(LevelDebug, "dropped")
	logger.SetLevel(LevelWarn)
	logger.Info("dropped too")
	logger.Log(LevelWarn, "kept")
	require.NoError(t, logger.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, LevelWarn, logger.GetLevel())
}

func TestNewWithConfig_BadEncoding(t *testing.T) {
	_, err := NewWithConfig(Config{Encoding: "xml"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	logger := NewNop()
	assert.NotPanics(t, func() {
		logger.Info("nothing")
		logger.With(String("k", "v")).Warn("nothing")
	})
	assert.NotNil(t, Provide())
}
