// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var level = new(slog.LevelVar)

// Setup installs a colored handler writing to w as the default logger.
// Verbose lowers the level to debug.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isTerminal(w),
	}))
	slog.SetDefault(logger)
	return logger
}

// Disable turns off all logging
func Disable() {
	slog.SetDefault(slog.New(slog.DiscardHandler))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
