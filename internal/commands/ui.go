package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
	"todo/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the interactive terminal UI.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Browse and edit todos interactively" }
func (c *UICmd) Usage() string     { return "todo ui" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if err := tui.Run(ctx, st); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
