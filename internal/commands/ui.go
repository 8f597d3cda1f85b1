package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/session"
	"todo/internal/tasklist"
	"todo/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command.
type UICmd struct{}

func (c *UICmd) Name() string          { return "ui" }
func (c *UICmd) Aliases() []string     { return nil }
func (c *UICmd) Synopsis() string      { return "Open the interactive view" }
func (c *UICmd) Usage() string         { return "todo ui [common flags]" }
func (c *UICmd) NeedsController() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

// OwnsTerminal implements TerminalOwner.
func (c *UICmd) OwnsTerminal() bool { return true }

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	opts := tui.Options{
		Store: session.NewStore(cfg.SessionPath()),
		// Google tokens come from the browser flow in `todo login`.
		TokenEntry: cfg.Settings.Backend != config.BackendGoogle,
	}
	if opts.TokenEntry {
		if err := cfg.EnsureDir(); err != nil {
			output.Errorf(errOut, "failed to create config directory: %v", err)
			return exitcode.AuthError
		}
	}
	if err := tui.Run(ctx, ctrl, opts, in, out); err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
