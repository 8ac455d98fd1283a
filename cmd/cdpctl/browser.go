package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neboloop/cdpctl/internal/browser"
)

// NavigateCmd creates the navigate command
func NavigateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <url>",
		Short: "Load a URL in the tab showing it (or a new tab)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Navigate(cmd.Context(), args[0]); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Navigated to %s", args[0])
			return nil
		},
	}
}

// ReloadCmd creates the reload command
func ReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the target tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Reload(cmd.Context()); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Reloaded %s", s.Config().TargetURL)
			return nil
		},
	}
}

// ScrollCmd creates the scroll command
func ScrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scroll <" + strings.Join(browser.ScrollDirections, "|") + "> [pixels]",
		Short: "Scroll the target tab",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pixels := 0
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("%w: pixels %q", browser.ErrInvalidArgument, args[1])
				}
				pixels = n
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Scroll(cmd.Context(), args[0], pixels); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Scrolled %s", args[0])
			return nil
		},
	}
}

// ClickCmd creates the click command
func ClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "click <x,y>",
		Short:   "Click at viewport coordinates",
		Example: `  cdpctl click "120,45"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Coordinates are checked before anything touches the network.
			x, y, err := browser.ParseCoordinates(args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Click(cmd.Context(), x, y); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Clicked at (%g, %g)", x, y)
			return nil
		},
	}
}

// TypeCmd creates the type command
func TypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type <text>",
		Short: "Type text into the focused element",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Type(cmd.Context(), text); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Typed %d characters", len([]rune(text)))
			return nil
		},
	}
}

// KeyCmd creates the key command
func KeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <name>",
		Short: "Press a named key",
		Long:  "Press one of: " + strings.Join(browser.KeyNames(), ", ") + ".\nAny other name is typed as literal text.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Key(cmd.Context(), args[0]); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Pressed %s", args[0])
			return nil
		},
	}
}

// EvaluateCmd creates the evaluate command
func EvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "evaluate <expression>",
		Aliases: []string{"eval"},
		Short:   "Evaluate a JavaScript expression in the target tab",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			value, err := s.Evaluate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), value)
		},
	}
}

// ScreenshotCmd creates the screenshot command
func ScreenshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "screenshot [file]",
		Short: "Capture the target tab as PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := ""
			if len(args) == 1 {
				filename = args[0]
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			path, err := s.Screenshot(cmd.Context(), filename)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "Screenshot saved to %s", path)
			return nil
		},
	}
}
