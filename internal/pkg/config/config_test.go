package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server: http://from-file:9000/\nlog-level: debug\ntimeout: 3\n"), 0o600))

	t.Setenv("SWEETSHOP_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(KeyServer, "", "")
	flags.String(KeySessionFile, "", "")
	require.NoError(t, flags.Parse([]string{"--session-file", "/tmp/s.json"}))

	v, err := New(flags, file)
	require.NoError(t, err)
	cfg := Resolve(v)

	assert.Equal(t, "http://from-file:9000", cfg.Server)
	assert.Equal(t, "/tmp/s.json", cfg.SessionFile)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 3, cfg.TimeoutSec)
}

func TestResolve_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	v, err := New(nil, "")
	require.NoError(t, err)
	cfg := Resolve(v)

	assert.Equal(t, "http://localhost:8080", cfg.Server)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 15, cfg.TimeoutSec)
	assert.Equal(t, "session.json", filepath.Base(cfg.SessionFile))
}

func TestNew_MissingExplicitFile(t *testing.T) {
	_, err := New(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
