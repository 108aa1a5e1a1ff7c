// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"todo/internal/backend/rest"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/service"
)

func main() {
	// Cancel on interrupt so in-flight requests and the dev server stop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
		return rest.New(cfg, logger), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
