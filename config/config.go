// Package config defines the rotviz server configuration file and the URL parameters that select
// a visualizer's initial settings.
package config

import (
	"fmt"
	"math"
	"net"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/session"
	"go.viam.com/rotviz/state"
)

// A Config describes how to run the rotviz server.
type Config struct {
	Network  NetworkConfig                 `json:"network"`
	Session  SessionConfig                 `json:"session"`
	Defaults state.Settings                `json:"defaults"`
	Log      []logging.LoggerPatternConfig `json:"log,omitempty"`
	LogFile  *LogFileConfig                `json:"log_file,omitempty"`
	Debug    bool                          `json:"debug,omitempty"`

	ConfigFilePath string `json:"-"`
}

// DefaultBindAddress is the default address that will be listened on.
const DefaultBindAddress = "localhost:8080"

// NetworkConfig describes networking settings for the web server.
type NetworkConfig struct {
	// BindAddress is the address that the web server will bind to.
	// The default behavior is to bind to localhost:8080.
	BindAddress string `json:"bind_address"`
	// CORSAllowedOrigins lists the origins browsers may call the API from. Empty allows any.
	CORSAllowedOrigins []string `json:"cors_allowed_origins,omitempty"`
	// SessionRate is how many sessions per second may be created, allowing bursts of
	// SessionBurst. Zero means no limit.
	SessionRate  float64 `json:"session_rate,omitempty"`
	SessionBurst int     `json:"session_burst,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (nc *NetworkConfig) Validate(path string) error {
	if nc.BindAddress == "" {
		nc.BindAddress = DefaultBindAddress
	}
	if _, _, err := net.SplitHostPort(nc.BindAddress); err != nil {
		return utils.NewConfigValidationError(path, errors.Wrap(err, "error validating bind_address"))
	}
	if nc.SessionRate < 0 || math.IsNaN(nc.SessionRate) || math.IsInf(nc.SessionRate, 0) {
		return utils.NewConfigValidationError(path, errors.Errorf("session_rate must be a non-negative number, got %v", nc.SessionRate))
	}
	if nc.SessionBurst < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("session_burst must not be negative, got %d", nc.SessionBurst))
	}
	if nc.SessionRate > 0 && nc.SessionBurst == 0 {
		nc.SessionBurst = int(math.Max(1, math.Ceil(nc.SessionRate)))
	}
	return nil
}

// SessionConfig controls how long idle sessions live. Durations are Go duration strings such as
// "10m".
type SessionConfig struct {
	HeartbeatWindow string `json:"heartbeat_window,omitempty"`
	SweepInterval   string `json:"sweep_interval,omitempty"`
	MaxSessions     int    `json:"max_sessions,omitempty"`

	heartbeatWindow time.Duration
	sweepInterval   time.Duration
}

// Validate parses the durations, filling in defaults for empty ones.
func (sc *SessionConfig) Validate(path string) error {
	var err error
	sc.heartbeatWindow, err = parseDuration(path, "heartbeat_window", sc.HeartbeatWindow, session.DefaultHeartbeatWindow)
	if err != nil {
		return err
	}
	sc.sweepInterval, err = parseDuration(path, "sweep_interval", sc.SweepInterval, session.DefaultSweepInterval)
	if err != nil {
		return err
	}
	if sc.MaxSessions < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("max_sessions must be non-negative, got %d", sc.MaxSessions))
	}
	return nil
}

// ManagerOptions returns the session manager options this config describes. Validate must have
// been called.
func (sc SessionConfig) ManagerOptions() session.ManagerOptions {
	return session.ManagerOptions{
		HeartbeatWindow: sc.heartbeatWindow,
		SweepInterval:   sc.sweepInterval,
		MaxSessions:     sc.MaxSessions,
	}
}

func parseDuration(path, field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, utils.NewConfigValidationError(path, errors.Wrapf(err, "error validating %s", field))
	}
	if d <= 0 {
		return 0, utils.NewConfigValidationError(path, errors.Errorf("%s must be positive, got %s", field, value))
	}
	return d, nil
}

// LogFileConfig sends logs to a size-rotated file in addition to stdout.
type LogFileConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
}

// Validate requires a path and fills in rotation defaults.
func (lc *LogFileConfig) Validate(path string) error {
	if lc.Path == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "path")
	}
	if lc.MaxSizeMB <= 0 {
		lc.MaxSizeMB = 100
	}
	if lc.MaxBackups <= 0 {
		lc.MaxBackups = 3
	}
	return nil
}

// Default returns the config used when no file is given.
func Default() *Config {
	cfg := &Config{Defaults: state.DefaultSettings()}
	if err := cfg.Ensure(); err != nil {
		panic(err)
	}
	return cfg
}

// Ensure validates every section, filling in defaults, and reports every problem found.
func (c *Config) Ensure() error {
	var err error
	err = multierr.Append(err, c.Network.Validate("network"))
	err = multierr.Append(err, c.Session.Validate("session"))
	if normalized, settingsErr := c.Defaults.Normalize(); settingsErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError("defaults", settingsErr))
	} else {
		c.Defaults = normalized
	}
	for idx, lpc := range c.Log {
		if lpcErr := lpc.Validate(); lpcErr != nil {
			err = multierr.Append(err, utils.NewConfigValidationError(fmt.Sprintf("log.%d", idx), lpcErr))
		}
	}
	if c.LogFile != nil {
		err = multierr.Append(err, c.LogFile.Validate("log_file"))
	}
	return err
}
