package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dynobj.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\non_duplicate: ignore\n"), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, OnDuplicateIgnore, opts.OnDuplicate)
	assert.Equal(t, DefaultLogFormat, opts.LogFormat)

	t.Setenv("DYNOBJ_LOG_LEVEL", "warn")
	t.Setenv("DYNOBJ_LOG_FORMAT", "json")
	opts, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", opts.LogLevel, "env overrides file")
	assert.Equal(t, "json", opts.LogFormat)
	assert.Equal(t, OnDuplicateIgnore, opts.OnDuplicate)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("DYNOBJ_ON_DUPLICATE", "explode")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on_duplicate")
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", *DefaultOptions(), false},
		{"bad level", Options{LogLevel: "loud", LogFormat: "text", OnDuplicate: OnDuplicateError}, true},
		{"bad format", Options{LogLevel: "info", LogFormat: "xml", OnDuplicate: OnDuplicateError}, true},
		{"json upper", Options{LogLevel: "ERROR", LogFormat: "JSON", OnDuplicate: OnDuplicateIgnore}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOptions_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	opts := &Options{LogLevel: "warn", LogFormat: "json"}
	logger, err := opts.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "name", "Counter")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"name":"Counter"`)
}
