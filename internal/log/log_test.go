package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_Stderr(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Stderr: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("connected", "password", "p@ss")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "connected")
	assert.Contains(t, out, "password="+Redacted)
}

func TestNew_Discard(t *testing.T) {
	logger, closer, err := New(Options{})
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ishremote.log")
	logger, closer, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug("call", "op", "Folder25.GetMetadata", "token", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"op":"Folder25.GetMetadata"`)
	assert.Contains(t, string(data), `"token":"[REDACTED]"`)
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.log")
	rf, err := NewRotatingFile(path, 10, 2)
	require.NoError(t, err)

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		_, err := rf.Write([]byte(line))
		require.NoError(t, err)
	}
	require.NoError(t, rf.Close())

	read := func(p string) string {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, "dddddddd\n", read(path))
	assert.Equal(t, "cccccccc\n", read(path+".1"))
	assert.Equal(t, "bbbbbbbb\n", read(path+".2"))
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))

	_, err = rf.Write([]byte("x"))
	assert.Error(t, err, "write after close")
}

func TestRotatingFile_NoBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.log")
	rf, err := NewRotatingFile(path, 4, 0)
	require.NoError(t, err)
	defer rf.Close()

	_, _ = rf.Write([]byte("1234"))
	_, _ = rf.Write([]byte("5678"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "5678", strings.TrimSpace(string(b)))
	_, err = os.Stat(path + ".1")
	assert.True(t, os.IsNotExist(err))
}
