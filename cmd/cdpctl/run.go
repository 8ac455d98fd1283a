package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neboloop/cdpctl/internal/browser"
)

// RunCmd creates the run command
func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <steps.yaml>",
		Short: "Run a scripted sequence of actions",
		Long: `Run the actions listed in a YAML file, in order. A failing step is reported
and the run continues; the command fails if any step failed.

  - navigate: http://localhost:5173/login
  - click: "120,45"
  - type: admin
  - key: Enter
  - scroll: down
    pixels: 200
  - evaluate: document.title
  - wait: 500ms
  - screenshot: login.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			steps, err := browser.ParseScript(data)
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			results := browser.RunScript(cmd.Context(), s, steps)

			out := cmd.OutOrStdout()
			failed := 0
			if jsonOut {
				if err := printJSON(out, results); err != nil {
					return err
				}
			}
			for i, r := range results {
				if !r.OK {
					failed++
				}
				if jsonOut {
					continue
				}
				switch {
				case !r.OK:
					errColor.Fprintf(out, "✗ %d. %s: %s\n", i+1, r.Step, r.Error)
				case r.Value != nil:
					printOK(out, "%d. %s => %v", i+1, r.Step, r.Value)
				default:
					printOK(out, "%d. %s", i+1, r.Step)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d steps failed", failed, len(results))
			}
			return nil
		},
	}
}
