package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	all  bool
	open bool
	done bool
}

// SetFilter sets the open/done filter flags (for testing).
func (c *ListCmd) SetFilter(open, done bool) {
	c.open, c.done = open, done
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List todos" }
func (c *ListCmd) Usage() string     { return "todo list [--all|--open|--done]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
	fs.BoolVar(&c.open, "open", false, "")
	fs.BoolVar(&c.done, "done", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if (c.open && c.done) || (c.all && (c.open || c.done)) {
		fmt.Fprintln(errOut, "error: use only one of --all, --open, --done")
		return exitcode.UserError
	}

	if code, ok := fetch(ctx, st, errOut); !ok {
		return code
	}

	filter := output.All
	switch {
	case c.open:
		filter = output.Open
	case c.done:
		filter = output.Done
	}

	todos := st.Todos.Get()
	if n := output.FormatTodos(out, todos, filter); n == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no todos found")
		}
		return exitcode.Success
	}
	if !cfg.Quiet {
		output.FormatSummary(out, todos)
	}
	return exitcode.Success
}
