package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/cache"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/session"
	"todo/internal/tasklist"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string          { return "logout" }
func (c *LogoutCmd) Aliases() []string     { return nil }
func (c *LogoutCmd) Synopsis() string      { return "Remove stored credentials" }
func (c *LogoutCmd) Usage() string         { return "todo logout [common flags]" }
func (c *LogoutCmd) NeedsController() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	store := session.NewStore(cfg.SessionPath())

	// Cached todos belong to the session; drop them even when the
	// session file is already gone.
	if err := clearCache(ctx, cfg); err != nil {
		output.Errorf(errOut, "failed to clear cache: %v", err)
		return exitcode.AuthError
	}

	if !store.Exists() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := store.Remove(); err != nil {
		output.Errorf(errOut, "failed to remove session: %v", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// clearCache forgets every cached list. A missing cache file is left alone.
func clearCache(ctx context.Context, cfg *config.Config) error {
	if !fileExists(cfg.CachePath()) {
		return nil
	}
	db, err := cache.Open(ctx, cfg.CachePath(), cfg.Scope())
	if err != nil {
		return err
	}
	defer db.Close()
	return db.ClearAll(ctx)
}
