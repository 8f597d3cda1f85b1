// Package config handles the XDG configuration directory, its files and config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// SessionFile is the stored bearer credential filename.
	SessionFile = "session.json"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// CacheFile is the local mirror database filename.
	CacheFile = "cache.sqlite"

	// LogFile receives debug logs while the interactive view runs.
	LogFile = "ui.log"

	// BackendURLEnv overrides base_url when set.
	BackendURLEnv = "TODO_BACKEND_URL"
)

// Backend kinds.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Edit modes.
const (
	// EditUpdate edits a title with a single update call.
	EditUpdate = "update"

	// EditRecreate edits by deleting the task and creating it again.
	EditRecreate = "recreate"
)

const (
	defaultBaseURL = "http://localhost:5000"
	defaultTimeout = 10 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings holds the values from config.yaml after defaults are applied.
	Settings Settings
}

// Settings is the content of config.yaml.
type Settings struct {
	Backend  string   `yaml:"backend,omitempty"`
	BaseURL  string   `yaml:"base_url,omitempty"`
	Timeout  Duration `yaml:"timeout,omitempty"`
	EditMode string   `yaml:"edit_mode,omitempty"`
	Cache    *bool    `yaml:"cache,omitempty"`
}

// Duration is a time.Duration that unmarshals from strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// New creates a new Config with the default or specified config directory
// and loads config.yaml from it if present.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load reads config.yaml (a missing file is not an error), applies the
// environment override and defaults, then validates the result.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.SettingsPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.Settings = Settings{}
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	default:
		var s Settings
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
		c.Settings = s
	}

	if url := os.Getenv(BackendURLEnv); url != "" {
		c.Settings.BaseURL = url
	}
	c.Settings.applyDefaults()
	return c.Settings.Validate()
}

func (s *Settings) applyDefaults() {
	if s.Backend == "" {
		s.Backend = BackendREST
	}
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	if s.Timeout == 0 {
		s.Timeout = Duration(defaultTimeout)
	}
	if s.EditMode == "" {
		// The REST API only documents completion updates.
		s.EditMode = EditRecreate
		if s.Backend == BackendGoogle {
			s.EditMode = EditUpdate
		}
	}
	if s.Cache == nil {
		on := true
		s.Cache = &on
	}
}

// Validate rejects unknown backend kinds, edit modes and non-positive timeouts.
func (s Settings) Validate() error {
	if s.Backend != BackendREST && s.Backend != BackendGoogle {
		return fmt.Errorf("invalid backend: %s (must be 'rest' or 'google')", s.Backend)
	}
	if s.EditMode != EditUpdate && s.EditMode != EditRecreate {
		return fmt.Errorf("invalid edit_mode: %s (must be 'update' or 'recreate')", s.EditMode)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", time.Duration(s.Timeout))
	}
	return nil
}

// RequestTimeout returns the per-request gateway timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.Settings.Timeout <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.Settings.Timeout)
}

// CacheEnabled reports whether the local mirror is in use.
func (c *Config) CacheEnabled() bool {
	return c.Settings.Cache == nil || *c.Settings.Cache
}

// Scope identifies whose list the mirror holds.
func (c *Config) Scope() string {
	if c.Settings.Backend == BackendGoogle {
		return BackendGoogle
	}
	return c.Settings.Backend + " " + c.Settings.BaseURL
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// CachePath returns the path to the mirror database.
func (c *Config) CachePath() string {
	return filepath.Join(c.Dir, CacheFile)
}

// LogPath returns the path to the interactive view's log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}
