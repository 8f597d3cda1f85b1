package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"todo/internal/config"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte(content), 0600))
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(config.BackendURLEnv, "")
	dir := t.TempDir()

	cfg, err := config.New(dir)
	require.NoError(t, err)

	require.Equal(t, dir, cfg.Dir)
	require.Equal(t, config.BackendREST, cfg.Settings.Backend)
	require.Equal(t, "http://localhost:5000", cfg.Settings.BaseURL)
	require.Equal(t, config.EditRecreate, cfg.Settings.EditMode)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout())
	require.True(t, cfg.CacheEnabled())
	require.Equal(t, filepath.Join(dir, "session.json"), cfg.SessionPath())
}

func TestNew_ReadsYAML(t *testing.T) {
	t.Setenv(config.BackendURLEnv, "")
	dir := t.TempDir()
	writeSettings(t, dir, "backend: google\ntimeout: 3s\ncache: false\n")

	cfg, err := config.New(dir)
	require.NoError(t, err)

	require.Equal(t, config.BackendGoogle, cfg.Settings.Backend)
	require.Equal(t, config.EditUpdate, cfg.Settings.EditMode)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout())
	require.False(t, cfg.CacheEnabled())
	require.Equal(t, "google", cfg.Scope())
}

func TestNew_EnvOverridesBaseURL(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "base_url: http://file.example\n")
	t.Setenv(config.BackendURLEnv, "http://env.example")

	cfg, err := config.New(dir)
	require.NoError(t, err)
	require.Equal(t, "http://env.example", cfg.Settings.BaseURL)
	require.Equal(t, "rest http://env.example", cfg.Scope())
}

func TestNew_RejectsInvalidValues(t *testing.T) {
	t.Setenv(config.BackendURLEnv, "")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"backend", "backend: carrier-pigeon\n", "invalid backend: carrier-pigeon (must be 'rest' or 'google')"},
		{"edit mode", "edit_mode: rewrite\n", "invalid edit_mode: rewrite (must be 'update' or 'recreate')"},
		{"timeout", "timeout: soon\n", `invalid timeout "soon"`},
		{"negative timeout", "timeout: -1s\n", "timeout must be positive, got -1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSettings(t, dir, tt.content)

			_, err := config.New(dir)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	require.Equal(t, filepath.Join("/tmp/xdg", "todo"), config.DefaultConfigDir())
}
