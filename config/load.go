package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/ini.v1"
)

// LoadFile applies the settings found in an INI file on top of cfg.
//
//	[dispatch]
//	timeout = 5s
//	retries = 0
//	retry_interval = 200ms
//	history_size = 64
//
//	[ydotool]
//	path = /usr/bin/ydotool
//
//	[http]
//	listen = localhost:12000
//	cors = false
//
//	[daemon]
//	log_file = /tmp/gestures-helper.log
func LoadFile(cfg *Config, path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}

	dispatch := file.Section("dispatch")
	if err := readDuration(dispatch, "timeout", &cfg.Dispatch.CallTimeout); err != nil {
		return err
	}
	if err := readInt(dispatch, "retries", &cfg.Dispatch.Retries); err != nil {
		return err
	}
	if err := readDuration(dispatch, "retry_interval", &cfg.Dispatch.RetryInterval); err != nil {
		return err
	}
	if err := readInt(dispatch, "history_size", &cfg.Dispatch.HistorySize); err != nil {
		return err
	}

	if key := file.Section("ydotool").Key("path").String(); key != "" {
		cfg.Ydotool.Path = key
	}

	http := file.Section("http")
	if http.HasKey("listen") {
		cfg.HTTP.Listen = http.Key("listen").String()
	}
	if http.HasKey("cors") {
		cors, err := http.Key("cors").Bool()
		if err != nil {
			return fmt.Errorf("invalid http.cors: %w", err)
		}
		cfg.HTTP.CORS = cors
	}

	if key := file.Section("daemon").Key("log_file").String(); key != "" {
		cfg.Daemon.LogFile = key
	}

	return nil
}

func readDuration(section *ini.Section, name string, dst *time.Duration) error {
	if !section.HasKey(name) {
		return nil
	}
	value, err := section.Key(name).Duration()
	if err != nil {
		return fmt.Errorf("invalid %s.%s: %w", section.Name(), name, err)
	}
	*dst = value
	return nil
}

func readInt(section *ini.Section, name string, dst *int) error {
	if !section.HasKey(name) {
		return nil
	}
	value, err := section.Key(name).Int()
	if err != nil {
		return fmt.Errorf("invalid %s.%s: %w", section.Name(), name, err)
	}
	*dst = value
	return nil
}

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(cfg *Config) {
	if timeout := os.Getenv("GESTURES_HELPER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d >= 0 {
			cfg.Dispatch.CallTimeout = d
		}
	}

	if retries := os.Getenv("GESTURES_HELPER_RETRIES"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil && n >= 0 {
			cfg.Dispatch.Retries = n
		}
	}

	if interval := os.Getenv("GESTURES_HELPER_RETRY_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil && d > 0 {
			cfg.Dispatch.RetryInterval = d
		}
	}

	if size := os.Getenv("GESTURES_HELPER_HISTORY_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n >= 0 {
			cfg.Dispatch.HistorySize = n
		}
	}

	if path := os.Getenv("GESTURES_HELPER_YDOTOOL"); path != "" {
		cfg.Ydotool.Path = path
	}

	if listen, ok := os.LookupEnv("GESTURES_HELPER_LISTEN"); ok {
		cfg.HTTP.Listen = listen
	}

	if cors := os.Getenv("GESTURES_HELPER_CORS"); cors != "" {
		if val, err := strconv.ParseBool(cors); err == nil {
			cfg.HTTP.CORS = val
		}
	}

	if logFile := os.Getenv("GESTURES_HELPER_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}
}

// Load builds the effective configuration: defaults, then the INI file, then
// the environment. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := LoadFile(cfg, path); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// no config file, defaults apply
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	LoadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
