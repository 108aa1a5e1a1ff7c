package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, HelpText(DefaultRegistry))
	return exitcode.Success
}

// HelpText renders usage for every command in r.
func HelpText(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "  %-44s %s\n", "todo", "List all todos")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %-44s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	b.WriteString(commonFlagsText)
	return b.String()
}

const commonFlagsText = `
Common flags:
  --config <dir>   Override config directory
  --api <url>      Override the API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
