// Package config provides configuration management for the adb-mcp server.
//
// Configuration controls:
//   - Capability mode (readonly vs full): determines which tools are registered
//   - Permission flags: gate package install, device file writes and reboot
//   - adb server address: host and port of the local adb daemon
//   - Output shaping: truncation limit, failure label language
//   - Timing: per-command timeout and scripted step delay
//
// Configuration can be loaded from a JSON file or use sensible defaults.
// String settings in the file may reference ${env:NAME}, ${userHome} and ${cwd}.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// CapabilityMode defines the level of device control exposed
type CapabilityMode string

const (
	ModeReadOnly CapabilityMode = "readonly" // Only inspection tools
	ModeFull     CapabilityMode = "full"     // All tools enabled
)

const (
	DefaultADBHost       = "127.0.0.1"
	DefaultADBPort       = 5037
	DefaultTruncateLimit = 10000
	DefaultStepDelay     = 500 * time.Millisecond
	DefaultRemoteTempDir = "/sdcard"
)

// Duration is a time.Duration that reads from JSON as a Go duration
// string ("30s") or a number of seconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		v, err := time.ParseDuration(unq)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", unq, err)
		}
		*d = Duration(v)
		return nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %s", s)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Duration(d).String())), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the server configuration
type Config struct {
	// Capability levels
	Mode           CapabilityMode `json:"mode"`
	AllowInstall   bool           `json:"allowInstall"`
	AllowFileWrite bool           `json:"allowFileWrite"`
	AllowReboot    bool           `json:"allowReboot"`

	ADB ADBConfig `json:"adb"`

	// Zero disables the per-command timeout.
	CommandTimeout  Duration `json:"commandTimeout"`
	ScriptStepDelay Duration `json:"scriptStepDelay"`

	TruncateLimit int    `json:"truncateLimit"`
	Language      string `json:"language"` // "en" or "zh"
	RemoteTempDir string `json:"remoteTempDir"`

	LogLevel string `json:"logLevel"`
	LogFile  string `json:"logFile"`
}

// ADBConfig holds the address of the local adb server
type ADBConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Address returns host:port of the adb server
func (a ADBConfig) Address() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:           ModeFull,
		AllowInstall:   true,
		AllowFileWrite: true,
		AllowReboot:    true,
		ADB: ADBConfig{
			Host: DefaultADBHost,
			Port: DefaultADBPort,
		},
		ScriptStepDelay: Duration(DefaultStepDelay),
		TruncateLimit:   DefaultTruncateLimit,
		Language:        "en",
		RemoteTempDir:   DefaultRemoteTempDir,
		LogLevel:        "info",
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := sonic.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.expandFields(); err != nil {
		return nil, fmt.Errorf("expand %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later at dispatch time
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeReadOnly, ModeFull:
	default:
		return fmt.Errorf("invalid mode %q: expected 'readonly' or 'full'", c.Mode)
	}
	if c.ADB.Port <= 0 || c.ADB.Port > 65535 {
		return fmt.Errorf("invalid adb port %d", c.ADB.Port)
	}
	if c.TruncateLimit <= 0 {
		return fmt.Errorf("truncateLimit must be positive, got %d", c.TruncateLimit)
	}
	if c.CommandTimeout < 0 || c.ScriptStepDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	switch c.Language {
	case "en", "zh":
	default:
		return fmt.Errorf("unsupported language %q: expected 'en' or 'zh'", c.Language)
	}
	return nil
}

// CanUseControlTools returns true if input, app and file mutation tools are enabled
func (c *Config) CanUseControlTools() bool {
	return c.Mode == ModeFull
}

// CanInstall returns true if installing and uninstalling packages is allowed
func (c *Config) CanInstall() bool {
	return c.Mode == ModeFull && c.AllowInstall
}

// CanWriteFiles returns true if pushing, writing and deleting device files is allowed
func (c *Config) CanWriteFiles() bool {
	return c.Mode == ModeFull && c.AllowFileWrite
}

// CanReboot returns true if rebooting the device is allowed
func (c *Config) CanReboot() bool {
	return c.Mode == ModeFull && c.AllowReboot
}
