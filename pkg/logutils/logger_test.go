package logutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("creates missing log dir and appends", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "logs", "redline.log")

		logger, closer, err := New("info", file)
		require.NoError(t, err)
		logger.Info().Msg("first run")
		closer()

		logger, closer, err = New("info", file)
		require.NoError(t, err)
		logger.Info().Msg("second run")
		closer()

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(data), "first run", "append mode keeps earlier runs")
		assert.Contains(t, string(data), "second run")
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "redline.log")

		logger, closer, err := New("", file)
		require.NoError(t, err)
		logger.Debug().Msg("too quiet")
		logger.Info().Msg("loud enough")
		closer()

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "too quiet")
		assert.Contains(t, string(data), "loud enough")
	})

	t.Run("bad level is rejected", func(t *testing.T) {
		_, _, err := New("shouting", "")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "parse log level"))
	})
}
