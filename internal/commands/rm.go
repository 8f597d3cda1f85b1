package commands

import (
	"context"
	"errors"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/tasklist"
)

func init() {
	Register(&RmCmd{})
	Register(&ClearCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

// SetYes skips the confirmation (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string          { return "rm" }
func (c *RmCmd) Aliases() []string     { return []string{"delete"} }
func (c *RmCmd) Synopsis() string      { return "Delete a todo" }
func (c *RmCmd) Usage() string         { return "todo rm [--yes] <ref>" }
func (c *RmCmd) NeedsController() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	task, code := loadAndResolve(ctx, ctrl, args, errOut)
	if code != exitcode.Success {
		return code
	}

	err := ctrl.Remove(ctx, task.ID, confirmer(c.yes, in, errOut))
	if errors.Is(err, tasklist.ErrNotConfirmed) {
		return cancelled(cfg.Quiet, out)
	}
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		output.Notice(out, tasklist.MsgDeleted)
	}
	return exitcode.Success
}

// ClearCmd implements the clear command, deleting every todo.
type ClearCmd struct {
	yes bool
}

// SetYes skips the confirmation (for testing).
func (c *ClearCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *ClearCmd) Name() string          { return "clear" }
func (c *ClearCmd) Aliases() []string     { return nil }
func (c *ClearCmd) Synopsis() string      { return "Delete all todos" }
func (c *ClearCmd) Usage() string         { return "todo clear [--yes]" }
func (c *ClearCmd) NeedsController() bool { return true }

func (c *ClearCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *ClearCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		output.Errorf(errOut, "unexpected argument: %s", args[0])
		return exitcode.UserError
	}
	if err := ctrl.Load(ctx); err != nil {
		return report(errOut, err)
	}

	err := ctrl.RemoveAll(ctx, confirmer(c.yes, in, errOut))
	if errors.Is(err, tasklist.ErrNotConfirmed) {
		return cancelled(cfg.Quiet, out)
	}
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		output.Notice(out, tasklist.MsgDeletedAll)
	}
	return exitcode.Success
}
