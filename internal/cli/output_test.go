package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woolly-dev/woolly/internal/logging"
)

// captureStderr points os.Stderr at a temp file for the rest of the test
// and returns a function reading what was written.
func captureStderr(t *testing.T) func() string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	orig := os.Stderr
	os.Stderr = f
	t.Cleanup(func() {
		os.Stderr = orig
		f.Close()
	})
	return func() string {
		data, err := os.ReadFile(f.Name())
		require.NoError(t, err)
		return string(data)
	}
}

func TestScreenLogger(t *testing.T) {
	t.Run("writes only to the log file", func(t *testing.T) {
		stderr := captureStderr(t)
		logFile := filepath.Join(t.TempDir(), "logs", "woolly.log")
		a := &app{logConfig: logging.Config{Level: slog.LevelInfo, File: logFile}}

		logger, closer, err := a.screenLogger()
		require.NoError(t, err)
		logger.Warn("write-through failed, rolling back", "project", "feature/checkout")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "write-through failed")
		assert.Empty(t, stderr())
	})

	t.Run("drops records without a log file", func(t *testing.T) {
		stderr := captureStderr(t)
		a := &app{logConfig: logging.Config{Level: slog.LevelDebug}}

		logger, closer, err := a.screenLogger()
		require.NoError(t, err)
		logger.Error("boom")
		require.NoError(t, closer.Close())
		assert.Empty(t, stderr())
	})
}
