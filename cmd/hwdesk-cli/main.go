// Package main provides the entry point for hwdesk-cli.
//
// hwdesk-cli is the command-line client for the Homework Management
// System, supporting both single-command mode and an interactive shell.
package main

import (
	"context"
	"os"
	"time"

	"github.com/yndnr/hwdesk-go/internal/cli/command"
	"github.com/yndnr/hwdesk-go/internal/infra/shutdown"
)

func main() {
	h := shutdown.NewHandler(5 * time.Second)
	ctx, stop := h.Context(context.Background())

	code := command.Run(ctx, os.Args, command.Options{Shutdown: h})

	stop()
	os.Exit(code)
}
