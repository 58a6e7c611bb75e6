package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/katalvlaran/treeproj/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"Warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(&buf, "warn", logging.FormatJSON)
	require.NoError(t, err)
	log.Info("dropped")
	log.Warn("kept", "sentence", 3)
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"sentence":3`)

	buf.Reset()
	log, err = logging.New(&buf, "debug", "")
	require.NoError(t, err)
	log.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	_, err = logging.New(&buf, "info", "xml")
	assert.Error(t, err)
	_, err = logging.New(&buf, "nope", "text")
	assert.Error(t, err)

	logging.Discard().Error("nothing")
}
