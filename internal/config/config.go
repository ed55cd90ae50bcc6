// Package config provides reading and writing of docver configuration.
// Supports both global (~/.docver/config.yaml) and local (.docver/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
//
// Environment variables (optionally from a .env file, see env.go) override
// server, client and notify settings at read time. They are never written
// back by Save.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.docver/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is repository-specific config in .docver/config.yaml
	ScopeLocal
)

// Dir is the name of the directory holding config, database and uploads.
const Dir = ".docver"

// Author identifies who runs CLI commands in the audit log.
type Author struct {
	Name string `yaml:"name,omitempty"`
}

// Server holds HTTP server options.
type Server struct {
	Addr        *string  `yaml:"addr,omitempty"`
	MaxUploadMB *int     `yaml:"max_upload_mb,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// Client holds upload client options.
type Client struct {
	Server *string `yaml:"server,omitempty"`
}

// Notify holds event publishing options. Publishing is off when RedisURL is
// empty.
type Notify struct {
	RedisURL string  `yaml:"redis_url,omitempty"`
	Channel  *string `yaml:"channel,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultAddr        = ":5000"
	DefaultMaxUploadMB = 32
	DefaultServer      = "http://localhost:5000"
	DefaultChannel     = "docver"
)

// Validation bounds.
const (
	MinMaxUploadMB = 1
	MaxMaxUploadMB = 4096
)

// Config contains configuration for docver.
type Config struct {
	Author Author `yaml:"author,omitempty"`
	Server Server `yaml:"server,omitempty"`
	Client Client `yaml:"client,omitempty"`
	Notify Notify `yaml:"notify,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Unset values are valid (defaults apply).
func (c *Config) Validate() error {
	if c.Server.MaxUploadMB != nil {
		v := *c.Server.MaxUploadMB
		if v < MinMaxUploadMB || v > MaxMaxUploadMB {
			return fmt.Errorf("%w: server.max_upload_mb must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxUploadMB, MaxMaxUploadMB, v)
		}
	}
	if c.Client.Server != nil {
		if err := checkURL("client.server", *c.Client.Server, "http", "https"); err != nil {
			return err
		}
	}
	if c.Notify.RedisURL != "" {
		if err := checkURL("notify.redis_url", c.Notify.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	}
	return nil
}

func checkURL(key, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidValue, key, raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s scheme must be one of %s, got %q",
		ErrInvalidValue, key, strings.Join(schemes, ", "), u.Scheme)
}

// Addr returns the HTTP listen address. DOCVER_ADDR overrides config.
func (c *Config) Addr() string {
	if v := os.Getenv("DOCVER_ADDR"); v != "" {
		return v
	}
	if c.Server.Addr == nil {
		return DefaultAddr
	}
	return *c.Server.Addr
}

// MaxUploadBytes returns the multipart memory limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	mb := DefaultMaxUploadMB
	if c.Server.MaxUploadMB != nil {
		mb = *c.Server.MaxUploadMB
	}
	return int64(mb) << 20
}

// CORSOrigins returns allowed CORS origins (defaults to all).
func (c *Config) CORSOrigins() []string {
	if len(c.Server.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return c.Server.CORSOrigins
}

// ServerURL returns the base URL the upload client talks to.
// DOCVER_SERVER overrides config.
func (c *Config) ServerURL() string {
	if v := os.Getenv("DOCVER_SERVER"); v != "" {
		return v
	}
	if c.Client.Server == nil {
		return DefaultServer
	}
	return *c.Client.Server
}

// RedisURL returns the redis URL for event publishing, empty when disabled.
// DOCVER_REDIS_URL overrides config.
func (c *Config) RedisURL() string {
	if v := os.Getenv("DOCVER_REDIS_URL"); v != "" {
		return v
	}
	return c.Notify.RedisURL
}

// Channel returns the redis channel prefix for events.
func (c *Config) Channel() string {
	if c.Notify.Channel == nil {
		return DefaultChannel
	}
	return *c.Notify.Channel
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(Dir, "config.yaml")
}

// GlobalPath returns the path to the global (user) config file.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, Dir, "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	LoadEnv()
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
