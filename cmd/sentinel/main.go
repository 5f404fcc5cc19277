package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/sentinel/internal/commands"
)

// Set by ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.HandleError(os.Stderr, commands.Execute(ctx, version, commit, date))
	stop()
	os.Exit(code)
}
