// Package main is the entry point for the drover build driver.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/droverbuild/drover/cmd/drover/commands"
	"github.com/droverbuild/drover/internal/app"
	_ "github.com/droverbuild/drover/internal/wiring"
	"github.com/grindlemire/graft"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
