package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Termdock configuration
type Config struct {
	Pool     PoolConfig     `mapstructure:"pool"`
	Terminal TerminalConfig `mapstructure:"terminal"`
	TUI      TUIConfig      `mapstructure:"tui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PoolConfig controls the terminal pool
type PoolConfig struct {
	// MaxSize is the maximum number of terminals the pool will hold (default: 10).
	// Creating a terminal beyond this limit fails; nothing is evicted to make room.
	MaxSize int `mapstructure:"max_size"`
}

// TerminalConfig controls how terminal engines are created
type TerminalConfig struct {
	// Cols is the initial width of new terminals in columns (default: 80)
	Cols int `mapstructure:"cols"`
	// Rows is the initial height of new terminals in rows (default: 24)
	Rows int `mapstructure:"rows"`
	// ScrollbackLines is the number of scrollback lines each engine retains (default: 10000).
	// Older lines are dropped once the limit is reached.
	ScrollbackLines int `mapstructure:"scrollback_lines"`
	// Shell is the command started inside new terminals.
	// If empty, $SHELL is used, falling back to /bin/sh.
	Shell string `mapstructure:"shell"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// CaptureIntervalMs is how often the visible terminal's buffer is captured (in milliseconds)
	CaptureIntervalMs int `mapstructure:"capture_interval_ms"`
	// SidebarWidth is the width of the sidebar panel in columns (default: 32, min: 20, max: 60)
	SidebarWidth int `mapstructure:"sidebar_width"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path. If empty, logs go to termdock.log in the data directory.
	// Supports ~ for home directory expansion.
	File string `mapstructure:"file"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			MaxSize: 10,
		},
		Terminal: TerminalConfig{
			Cols:            80,
			Rows:            24,
			ScrollbackLines: 10000,
			Shell:           "", // Empty means use $SHELL
		},
		TUI: TUIConfig{
			CaptureIntervalMs: 100,
			SidebarWidth:      32,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			File:    "", // Empty means use default path in data directory
		},
	}
}

// CaptureInterval returns the capture interval as a time.Duration
func (c *TUIConfig) CaptureInterval() time.Duration {
	return time.Duration(c.CaptureIntervalMs) * time.Millisecond
}

// ShellCommand returns the command to start inside new terminals.
// It prefers the configured shell, then $SHELL, then /bin/sh.
func (c *TerminalConfig) ShellCommand() string {
	if c.Shell != "" {
		return c.Shell
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// ResolveFile returns the resolved log file path.
// If File is empty, it returns the default path inside the data directory.
// If File starts with ~, it expands to the user's home directory.
func (l *LoggingConfig) ResolveFile() string {
	if l.File == "" {
		return filepath.Join(DataDir(), "termdock.log")
	}

	path := l.File

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Pool defaults
	viper.SetDefault("pool.max_size", defaults.Pool.MaxSize)

	// Terminal defaults
	viper.SetDefault("terminal.cols", defaults.Terminal.Cols)
	viper.SetDefault("terminal.rows", defaults.Terminal.Rows)
	viper.SetDefault("terminal.scrollback_lines", defaults.Terminal.ScrollbackLines)
	viper.SetDefault("terminal.shell", defaults.Terminal.Shell)

	// TUI defaults
	viper.SetDefault("tui.capture_interval_ms", defaults.TUI.CaptureIntervalMs)
	viper.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "termdock")
	}
	// Fall back to ~/.config/termdock
	home, err := os.UserHomeDir()
	if err != nil {
		return ".termdock"
	}
	return filepath.Join(home, ".config", "termdock")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the path to the user's data directory, used for
// buffer snapshots and the default log file
func DataDir() string {
	// Check XDG_DATA_HOME first
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "termdock")
	}
	// Fall back to ~/.local/share/termdock
	home, err := os.UserHomeDir()
	if err != nil {
		return ".termdock"
	}
	return filepath.Join(home, ".local", "share", "termdock")
}

// SnapshotsDir returns the directory where buffer snapshots are persisted
func SnapshotsDir() string {
	return filepath.Join(DataDir(), "snapshots")
}
