package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/neboloop/cdpctl/internal/browser"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	keyColor  = color.New(color.FgCyan)
)

func printOK(w io.Writer, format string, args ...any) {
	okColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func printWarn(w io.Writer, format string, args ...any) {
	warnColor.Fprint(w, "! ")
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, key string, value any) {
	keyColor.Fprintf(w, "  %-12s", key+":")
	fmt.Fprintf(w, " %v\n", value)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrintError reports a failed command with a hint for the common causes.
func PrintError(w io.Writer, err error) {
	errColor.Fprintf(w, "Error: %v\n", err)

	var perr *browser.ProtocolError
	var serr *browser.ScriptError
	switch {
	case errors.Is(err, browser.ErrUnreachable):
		warnColor.Fprintln(w, "The browser is not reachable. Run 'cdpctl ensure' for the launch command.")
	case errors.As(err, &perr):
		warnColor.Fprintf(w, "The browser rejected %s.\n", perr.Method)
	case errors.As(err, &serr):
		warnColor.Fprintln(w, "The expression threw inside the page.")
	case errors.Is(err, browser.ErrInvalidArgument):
		warnColor.Fprintln(w, "Check the command arguments; see --help.")
	}
}
