// Package defaults resolves the platform directories cdpctl uses.
//
// Platform paths follow the XDG base directory layout (and its macOS and
// Windows equivalents):
//
//	state:  $XDG_STATE_HOME/cdpctl   (~/.local/state/cdpctl)
//	config: $XDG_CONFIG_HOME/cdpctl  (~/.config/cdpctl)
//
// Override the state directory with CDPCTL_STATE_DIR.
package defaults

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

const appName = "cdpctl"

// StateDir returns where the connection snapshot and ready signal live.
func StateDir() string {
	if dir := os.Getenv("CDPCTL_STATE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, appName)
}

// ConfigFile returns the default config file location. It may not exist.
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// EnsureStateDir creates dir on fs if it doesn't exist.
func EnsureStateDir(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}
