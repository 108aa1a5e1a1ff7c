// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command talks to the todos API.
	// Commands like help, version and serve return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// st is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int
}

// parseID parses a single positional todo ID.
func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("todo id required")
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("too many arguments: %s", strings.Join(args[1:], " "))
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid todo id: %s", args[0])
	}
	return id, nil
}

// reportFailure prints the store's last failure and returns the exit code
// for it. A not-found from the API means the user named a missing todo.
func reportFailure(st *store.Store, id int, errOut io.Writer) int {
	f := st.LastFailure()
	if id > 0 && f.NotFound {
		fmt.Fprintf(errOut, "error: todo not found: %d\n", id)
		return exitcode.UserError
	}
	if f.Detail != "" {
		fmt.Fprintf(errOut, "error: backend error: %s: %s\n", st.Error.Get(), f.Detail)
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: backend error: %s\n", st.Error.Get())
	return exitcode.BackendError
}

// fetch loads the list into st, reporting a failure on errOut.
func fetch(ctx context.Context, st *store.Store, errOut io.Writer) (int, bool) {
	st.FetchTodos(ctx)
	if st.Error.Get() != "" {
		return reportFailure(st, 0, errOut), false
	}
	return exitcode.Success, true
}
