package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/store"
)

func init() {
	Register(&DoneCmd{})
	Register(&ToggleCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a todo completed" }
func (c *DoneCmd) Usage() string     { return "todo done <id>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, ok := st.UpdateTodo(ctx, id, service.TodoUpdate{}.SetCompleted(true)); !ok {
		return reportFailure(st, id, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// ToggleCmd implements the toggle command.
// It fetches the list first to learn the todo's current state.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return nil }
func (c *ToggleCmd) Synopsis() string  { return "Flip a todo between open and completed" }
func (c *ToggleCmd) Usage() string     { return "todo toggle <id>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if code, ok := fetch(ctx, st, errOut); !ok {
		return code
	}
	current, found := st.Find(id)
	if !found {
		fmt.Fprintf(errOut, "error: todo not found: %d\n", id)
		return exitcode.UserError
	}

	updated, ok := st.ToggleTodo(ctx, id, current.Completed)
	if !ok {
		return reportFailure(st, id, errOut)
	}

	if !cfg.Quiet {
		state := "open"
		if updated.Completed {
			state = "done"
		}
		fmt.Fprintf(out, "ok %s\n", state)
	}
	return exitcode.Success
}
