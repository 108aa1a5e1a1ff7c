package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/devserver"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/store"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the development API server.
type ServeCmd struct {
	addr     string
	database string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run a local todos API server" }
func (c *ServeCmd) Usage() string     { return "todo serve [--addr <host:port>] [--db <path>]" }
func (c *ServeCmd) NeedsStore() bool  { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.database, "db", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	logger, err := logging.Configure(errOut, cfg.LogLevel, cfg.Debug, log.InfoLevel)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	addr := cfg.Server.Addr
	if c.addr != "" {
		addr = c.addr
	}
	dbPath := cfg.Server.Database
	if c.database != "" {
		dbPath = c.database
	}

	repo, err := openRepository(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	defer repo.Close()

	if err := devserver.New(repo, logger).ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: server failed: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

func openRepository(ctx context.Context, path string) (devserver.Repository, error) {
	if path == "" {
		return devserver.NewMemoryRepository(), nil
	}
	return devserver.OpenSQLite(ctx, path)
}
