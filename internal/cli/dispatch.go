package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/store"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args lists all todos
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var apiURL string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorText(err))
		return exitcode.UserError
	}

	// A leading "-" left after parsing means flag parsing stopped at it.
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config: %s\n", err)
		return exitcode.ConfigError
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: config: %s\n", err)
			return exitcode.ConfigError
		}
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	var st *store.Store
	if cmd.NeedsStore() {
		// Failures are already printed by the command, so the store logs
		// nothing unless a level was asked for.
		logger, err := logging.Configure(errOut, cfg.LogLevel, cfg.Debug, log.FatalLevel)
		if err != nil {
			fmt.Fprintf(errOut, "error: config: %s\n", err)
			return exitcode.ConfigError
		}

		svc, err := d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		st = store.New(svc, logger)
	}

	return cmd.Run(ctx, cfg, st, positionalArgs, out, errOut)
}

// flagErrorText rewrites flag package errors into the CLI's wording.
func flagErrorText(err error) string {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 1 {
			return "flag needs an argument: " + strings.TrimSpace(parts[len(parts)-1])
		}
	}

	// Unknown flag
	if flagName, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		return "unknown flag: " + flagName
	}

	return errStr
}
