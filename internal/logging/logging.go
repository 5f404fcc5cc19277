package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init installs the default slog logger on stderr. Verbose enables debug
// output; otherwise only warnings and errors are shown so they do not
// interleave with the operator report on stdout.
func Init(verbose bool) {
	slog.SetDefault(New(os.Stderr, verbose))
}

// New builds a text logger writing to w.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
