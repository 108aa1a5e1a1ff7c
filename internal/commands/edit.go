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
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only flags that were given are sent.
type EditCmd struct {
	updates service.TodoUpdate
}

// SetUpdates sets the pending updates (for testing).
func (c *EditCmd) SetUpdates(u service.TodoUpdate) {
	c.updates = u
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a todo's title or description" }
func (c *EditCmd) Usage() string     { return "todo edit [--title <text>] [--desc <text>] <id>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.updates = service.TodoUpdate{}
	fs.Func("title", "", func(s string) error {
		c.updates = c.updates.SetTitle(s)
		return nil
	})
	fs.Func("desc", "", func(s string) error {
		c.updates = c.updates.SetDescription(s)
		return nil
	})
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.updates.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --desc)")
		return exitcode.UserError
	}

	if _, ok := st.UpdateTodo(ctx, id, c.updates); !ok {
		return reportFailure(st, id, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
