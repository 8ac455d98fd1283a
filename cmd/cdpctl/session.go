package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neboloop/cdpctl/internal/browser"
)

var errNotRunning = fmt.Errorf("%w: browser not running", browser.ErrUnreachable)

// StatusCmd creates the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the browser answers on the debugging port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			running, info := s.Coordinator.Status(cmd.Context())
			if jsonOut {
				if err := printJSON(out, map[string]any{"running": running, "connection": info}); err != nil {
					return err
				}
			} else if running {
				printOK(out, "Browser running")
				printConnection(cmd, info)
				printField(out, "snapshot", s.Coordinator.SnapshotPath())
			} else {
				printWarn(out, "Browser not running on port %d", s.Config().CDPPort)
				if last, err := s.Coordinator.LastSnapshot(); err == nil {
					printField(out, "last seen", last.LastChecked.Format(time.RFC3339))
				}
			}

			if !running {
				return errNotRunning
			}
			return nil
		},
	}
}

// EnsureCmd creates the ensure command
func EnsureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure",
		Short: "Check the browser is running, or print how to start it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			info := s.Coordinator.Ensure(cmd.Context())
			if info == nil {
				return errNotRunning
			}
			printOK(cmd.OutOrStdout(), "Browser available")
			printConnection(cmd, info)
			return nil
		},
	}
}

// StartupCmd creates the startup command
func StartupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "startup",
		Short: "Session startup hook: ensure the browser and write the ready signal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Coordinator.MarkReady(cmd.Context()); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Session ready for %s", s.Config().TargetURL)
			printField(cmd.OutOrStdout(), "signal", s.Config().ReadySignalPath())
			return nil
		},
	}
}

// VerifyCmd creates the verify command
func VerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the browser and report the target tab's document state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			report, err := s.Verify(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, report)
			}
			printOK(out, "Target tab verified")
			printField(out, "target", report.TargetID)
			printField(out, "url", report.URL)
			printField(out, "readyState", report.ReadyState)
			printField(out, "title", report.Title)
			return nil
		},
	}
}

func printConnection(cmd *cobra.Command, info *browser.ConnectionInfo) {
	out := cmd.OutOrStdout()
	printField(out, "port", info.CDPPort)
	printField(out, "websocket", info.WSEndpoint)
	printField(out, "checked", info.LastChecked.Format(time.RFC3339))
}
