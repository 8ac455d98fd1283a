package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/mstoykov/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/neboloop/cdpctl/internal/browser"
	"github.com/neboloop/cdpctl/internal/defaults"
)

// EnvPrefix prefixes every environment override, e.g. CDPCTL_CDP_PORT.
// Unprefixed names are never consulted.
const EnvPrefix = "CDPCTL"

// Config is the on-disk and environment configuration. Zero values mean
// "use the default" when converted with Browser.
type Config struct {
	CDPPort       int    `yaml:"cdp_port" split_words:"true"`
	Host          string `yaml:"host" split_words:"true"`
	TargetURL     string `yaml:"target_url" split_words:"true"`
	StateDir      string `yaml:"state_dir" split_words:"true"`
	ScreenshotDir string `yaml:"screenshot_dir" split_words:"true"`
	BrowserPath   string `yaml:"browser_path" split_words:"true"`
	UserDataDir   string `yaml:"user_data_dir" split_words:"true"`

	ProbeTimeout   time.Duration `yaml:"probe_timeout" split_words:"true"`
	HTTPTimeout    time.Duration `yaml:"http_timeout" split_words:"true"`
	CommandTimeout time.Duration `yaml:"command_timeout" split_words:"true"`
	SettleDelay    time.Duration `yaml:"settle_delay" split_words:"true"`
	TypeDelay      time.Duration `yaml:"type_delay" split_words:"true"`
}

// LoadFromBytes loads configuration from YAML bytes with environment variable expansion
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	if err := c.merge(data); err != nil {
		return c, err
	}
	return c, nil
}

// MergeFile overlays the keys present in the YAML file at path. A missing
// file is not an error unless required is set.
func (c *Config) MergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := c.merge(data); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// MergeEnv overlays CDPCTL_* environment variables.
func (c *Config) MergeEnv() error {
	if err := envconfig.Process(EnvPrefix, c, os.LookupEnv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

func (c *Config) merge(data []byte) error {
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), c); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// expandEnv substitutes set variables and leaves unset ones as written.
func expandEnv(s string) string {
	return os.Expand(s, func(name string) string {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return "${" + name + "}"
	})
}

// Browser resolves the browser package configuration. Unset values fall back
// to the browser defaults; the state dir falls back to the platform default.
func (c Config) Browser() browser.Config {
	b := browser.DefaultConfig()
	if c.CDPPort != 0 {
		b.CDPPort = c.CDPPort
	}
	if c.Host != "" {
		b.Host = c.Host
	}
	if c.TargetURL != "" {
		b.TargetURL = c.TargetURL
	}
	b.StateDir = c.StateDir
	if b.StateDir == "" {
		b.StateDir = defaults.StateDir()
	}
	if c.ScreenshotDir != "" {
		b.ScreenshotDir = c.ScreenshotDir
	}
	b.ExecutablePath = c.BrowserPath
	b.UserDataDir = c.UserDataDir
	if c.ProbeTimeout > 0 {
		b.ProbeTimeout = c.ProbeTimeout
	}
	if c.HTTPTimeout > 0 {
		b.HTTPTimeout = c.HTTPTimeout
	}
	if c.CommandTimeout > 0 {
		b.CommandTimeout = c.CommandTimeout
	}
	if c.SettleDelay > 0 {
		b.SettleDelay = c.SettleDelay
	}
	if c.TypeDelay > 0 {
		b.TypeDelay = c.TypeDelay
	}
	return b
}
