package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const appName = "gestures-helper"

// Config holds the runtime knobs of the helper. The gesture mapping itself is
// fixed and not part of the configuration.
type Config struct {
	// Dispatch configuration
	Dispatch DispatchConfig

	// Ydotool configuration
	Ydotool YdotoolConfig

	// HTTP JSON-RPC listener configuration
	HTTP HTTPConfig

	// Daemon configuration
	Daemon DaemonConfig
}

// DispatchConfig controls how action sinks are called
type DispatchConfig struct {
	CallTimeout   time.Duration // Upper bound for one sink call, 0 disables
	Retries       int           // Extra attempts while the target service is unavailable
	RetryInterval time.Duration // Pause between attempts
	HistorySize   int           // Recent dispatches kept for diagnostics, 0 disables
}

// YdotoolConfig holds key injection configuration
type YdotoolConfig struct {
	Path string // ydotool binary, looked up in PATH when not absolute
}

// HTTPConfig holds the optional JSON-RPC listener configuration
type HTTPConfig struct {
	Listen string // Empty disables the listener
	CORS   bool
}

// DaemonConfig holds background process configuration
type DaemonConfig struct {
	LogFile string // Empty means the daemon discards its output
}

// Default returns a Config with the built-in defaults
func Default() *Config {
	return &Config{
		Dispatch: DispatchConfig{
			CallTimeout:   5 * time.Second,
			Retries:       0,
			RetryInterval: 200 * time.Millisecond,
			HistorySize:   64,
		},
		Ydotool: YdotoolConfig{
			Path: "ydotool",
		},
		HTTP: HTTPConfig{
			Listen: "",
			CORS:   false,
		},
		Daemon: DaemonConfig{
			LogFile: "",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gestures-helper/config.ini, falling
// back to ~/.config when XDG_CONFIG_HOME is unset
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.ini")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dispatch.CallTimeout < 0 {
		return fmt.Errorf("call timeout cannot be negative, got %v", c.Dispatch.CallTimeout)
	}

	if c.Dispatch.Retries < 0 || c.Dispatch.Retries > 10 {
		return fmt.Errorf("retries must be between 0 and 10, got %d", c.Dispatch.Retries)
	}

	if c.Dispatch.Retries > 0 && c.Dispatch.RetryInterval <= 0 {
		return fmt.Errorf("retry interval must be positive when retries are enabled")
	}

	if c.Dispatch.HistorySize < 0 {
		return fmt.Errorf("history size cannot be negative, got %d", c.Dispatch.HistorySize)
	}

	if c.Ydotool.Path == "" {
		return fmt.Errorf("ydotool path cannot be empty")
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	listen := c.HTTP.Listen
	if listen == "" {
		listen = "(disabled)"
	}

	return fmt.Sprintf(`Configuration:
  Dispatch:
    Call Timeout: %v
    Retries: %d
    Retry Interval: %v
    History Size: %d
  Ydotool:
    Path: %s
  HTTP:
    Listen: %s
    CORS: %v
  Daemon:
    Log File: %s`,
		c.Dispatch.CallTimeout,
		c.Dispatch.Retries,
		c.Dispatch.RetryInterval,
		c.Dispatch.HistorySize,
		c.Ydotool.Path,
		listen,
		c.HTTP.CORS,
		c.Daemon.LogFile,
	)
}
