package browser

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config is the resolved browser configuration.
type Config struct {
	// Host is the debugging endpoint host.
	Host string

	// CDPPort is the remote debugging port.
	CDPPort int

	// TargetURL is matched against open tabs by every verb except Navigate.
	TargetURL string

	// StateDir holds the connection snapshot and the ready signal.
	StateDir string

	// ScreenshotDir is where generated screenshot names are placed.
	ScreenshotDir string

	// ExecutablePath overrides browser detection for launch guidance.
	ExecutablePath string

	// UserDataDir is suggested in launch guidance.
	UserDataDir string

	ProbeTimeout   time.Duration
	HTTPTimeout    time.Duration
	CommandTimeout time.Duration

	// SettleDelay is waited after navigation and reload. Zero disables it.
	SettleDelay time.Duration

	// TypeDelay is waited between typed characters. Zero disables it.
	TypeDelay time.Duration
}

// DefaultConfig returns the default browser configuration.
func DefaultConfig() Config {
	return Config{
		Host:           DefaultHost,
		CDPPort:        DefaultCDPPort,
		TargetURL:      DefaultTargetURL,
		StateDir:       ".",
		ScreenshotDir:  ".",
		ProbeTimeout:   DefaultProbeTimeout,
		HTTPTimeout:    DefaultHTTPTimeout,
		CommandTimeout: DefaultCommandTimeout,
		SettleDelay:    DefaultSettleDelay,
		TypeDelay:      DefaultTypeDelay,
	}
}

// normalize fills the fields that cannot be zero. Delays are left alone so
// callers can turn them off.
func (c Config) normalize() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.CDPPort == 0 {
		c.CDPPort = DefaultCDPPort
	}
	if c.TargetURL == "" {
		c.TargetURL = DefaultTargetURL
	}
	if c.StateDir == "" {
		c.StateDir = "."
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "."
	}
	if c.ProbeTimeout <= 0 || c.ProbeTimeout > maxProbeTimeout {
		c.ProbeTimeout = maxProbeTimeout
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
	if c.UserDataDir == "" {
		c.UserDataDir = filepath.Join(c.StateDir, "chrome-shared-profile")
	}
	return c
}

// HTTPBase is the debugging endpoint base URL, e.g. http://localhost:9222.
func (c Config) HTTPBase() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.CDPPort)
}

// SnapshotPath is the location of the persisted connection snapshot.
func (c Config) SnapshotPath() string {
	return filepath.Join(c.StateDir, SnapshotFileName)
}

// ReadySignalPath is the location of the startup ready signal.
func (c Config) ReadySignalPath() string {
	return filepath.Join(c.StateDir, ReadySignalFileName)
}
