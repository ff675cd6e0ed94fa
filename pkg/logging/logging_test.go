package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid level", func(t *testing.T) {
		logger, flush, err := New(Config{Level: "debug", Pretty: true})
		require.NoError(t, err)
		require.NotNil(t, logger)
		logger.WithFields(map[string]any{"rows": 2}).Debug("logger built")
		flush()
	})

	t.Run("invalid level", func(t *testing.T) {
		_, _, err := New(Config{Level: "chatty"})
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	require.NotNil(t, logger)
	logger.WithField("k", "v").Info("discarded")
}
