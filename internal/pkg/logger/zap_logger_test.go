package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_GetLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.log")
	l := NewIsolatedLogger(path)

	l.Info("Transcript", "turn", map[string]interface{}{"n": 1})
	l.Info("Other", "ignored", nil)
	l.Info("Transcript", "turn", map[string]interface{}{"n": 2})
	require.NoError(t, l.Sync())

	entries, err := l.GetLogs("Transcript", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, float64(2), entries[0].Details["n"], "newest first")
	assert.NotEmpty(t, entries[0].Id)

	entries, err = l.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Other", entries[0].Module)

	entries, err = l.GetLogs("", 10, 50)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("Test", "nothing happens", map[string]interface{}{"error": "x"})
	entries, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
