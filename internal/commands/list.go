package commands

import (
	"context"
	"errors"
	"flag"
	"io"

	"todo/internal/cache"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	offline bool
}

// SetOffline sets the offline flag (for testing).
func (c *ListCmd) SetOffline(offline bool) {
	c.offline = offline
}

func (c *ListCmd) Name() string          { return "list" }
func (c *ListCmd) Aliases() []string     { return []string{"ls"} }
func (c *ListCmd) Synopsis() string      { return "List todos" }
func (c *ListCmd) Usage() string         { return "todo list [--offline]" }
func (c *ListCmd) NeedsController() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.offline, "offline", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		output.Errorf(errOut, "unexpected argument: %s", args[0])
		return exitcode.UserError
	}
	if c.offline {
		return c.listCached(ctx, cfg, out, errOut)
	}

	if err := ctrl.Load(ctx); err != nil {
		return report(errOut, err)
	}
	output.FormatList(out, ctrl.Tasks(), cfg.Quiet)
	return exitcode.Success
}

// listCached prints the last list saved for the configured backend.
func (c *ListCmd) listCached(ctx context.Context, cfg *config.Config, out, errOut io.Writer) int {
	if !cfg.CacheEnabled() {
		output.Error(errOut, "cache is disabled (set cache: true in config.yaml)")
		return exitcode.UserError
	}

	db, err := cache.Open(ctx, cfg.CachePath(), cfg.Scope())
	if err != nil {
		output.Errorf(errOut, "failed to open cache: %v", err)
		return exitcode.UserError
	}
	defer db.Close()

	tasks, err := db.Load(ctx)
	if errors.Is(err, cache.ErrNoSnapshot) {
		output.Error(errOut, "no cached todos (run: todo list)")
		return exitcode.UserError
	}
	if err != nil {
		output.Errorf(errOut, "failed to read cache: %v", err)
		return exitcode.UserError
	}
	savedAt, err := db.SavedAt(ctx)
	if err != nil {
		output.Errorf(errOut, "failed to read cache: %v", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		output.FormatStale(errOut, savedAt)
	}
	output.FormatList(out, tasks, cfg.Quiet)
	return exitcode.Success
}
