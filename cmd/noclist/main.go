package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaborage/noclist/internal/commands"
)

var version = "dev" // Will be set during build

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := commands.NewRootCommand(version)
	rootCmd.AddCommand(commands.NewVersionCommand(version))

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		commands.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
