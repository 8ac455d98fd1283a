package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neboloop/cdpctl/internal/browser"
	"github.com/neboloop/cdpctl/internal/config"
	"github.com/neboloop/cdpctl/internal/defaults"
	"github.com/neboloop/cdpctl/internal/logging"
)

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	AppConfig = c

	rootCmd := &cobra.Command{
		Use:   "cdpctl",
		Short: "cdpctl - drive a local browser over the DevTools protocol",
		Long: `cdpctl talks to a Chromium-based browser started with --remote-debugging-port.

Every command finds (or opens) the tab showing the target URL and sends it
protocol commands, one connection per command. Use 'cdpctl ensure' to check
the browser is up and get the command to start it if not.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/cdpctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "debugging endpoint host (default localhost)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "remote debugging port (default 9222)")
	rootCmd.PersistentFlags().StringVar(&targetURL, "url", "", "URL of the tab to act on (default http://localhost:5173)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "directory for the connection snapshot")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	// Browser actions
	rootCmd.AddCommand(NavigateCmd())
	rootCmd.AddCommand(ReloadCmd())
	rootCmd.AddCommand(ScrollCmd())
	rootCmd.AddCommand(ClickCmd())
	rootCmd.AddCommand(TypeCmd())
	rootCmd.AddCommand(KeyCmd())
	rootCmd.AddCommand(EvaluateCmd())
	rootCmd.AddCommand(ScreenshotCmd())
	rootCmd.AddCommand(RunCmd())

	// Session
	rootCmd.AddCommand(StatusCmd())
	rootCmd.AddCommand(EnsureCmd())
	rootCmd.AddCommand(StartupCmd())
	rootCmd.AddCommand(VerifyCmd())

	return rootCmd
}

// resolveConfig layers the config file, environment and flags over the
// embedded defaults.
func resolveConfig(cmd *cobra.Command) (browser.Config, error) {
	c := config.Config{}
	if AppConfig != nil {
		c = *AppConfig
	}

	path, required := cfgFile, cfgFile != ""
	if path == "" {
		path = defaults.ConfigFile()
	}
	if err := c.MergeFile(path, required); err != nil {
		return browser.Config{}, err
	}
	if err := c.MergeEnv(); err != nil {
		return browser.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		c.Host = host
	}
	if flags.Changed("port") {
		if port <= 0 || port > 65535 {
			return browser.Config{}, fmt.Errorf("%w: port %d", browser.ErrInvalidArgument, port)
		}
		c.CDPPort = port
	}
	if flags.Changed("url") {
		c.TargetURL = targetURL
	}
	if flags.Changed("state-dir") {
		c.StateDir = stateDir
	}
	return c.Browser(), nil
}

// newSession sets up logging and builds a browser session for cmd.
func newSession(cmd *cobra.Command) (*browser.Session, error) {
	if quiet {
		logging.Disable()
	} else {
		logging.Setup(cmd.ErrOrStderr(), verbose)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return browser.NewSession(cfg, browser.WithOutput(cmd.ErrOrStderr())), nil
}
