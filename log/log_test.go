package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	prev := logWriter
	logWriter = &buf
	t.Cleanup(func() { logWriter = prev })

	logger, err := New("ballot", "info", JSONEncoder)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("visible")
	require.NoError(t, logger.Sync())
	require.Contains(t, buf.String(), `"msg":"visible"`)
	require.Contains(t, buf.String(), `"logger":"ballot"`)
	require.NotContains(t, buf.String(), "hidden")
}

func TestNewErrors(t *testing.T) {
	_, err := New("ballot", "loud", ConsoleEncoder)
	require.Error(t, err)
	_, err = New("ballot", "info", "xml")
	require.Error(t, err)
}
