package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/tasklist"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string          { return "add" }
func (c *AddCmd) Aliases() []string     { return []string{"create"} }
func (c *AddCmd) Synopsis() string      { return "Create a todo" }
func (c *AddCmd) Usage() string         { return "todo add <title...>" }
func (c *AddCmd) NeedsController() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) == 0 {
		output.Error(errOut, tasklist.ErrEmptyTitle.Message)
		return exitcode.UserError
	}
	title := strings.Join(args, " ")

	// Validate before loading so a bad title costs no request.
	if _, err := tasklist.ValidateTitle(title); err != nil {
		return report(errOut, err)
	}

	// The duplicate check needs the current list.
	if err := ctrl.Load(ctx); err != nil {
		return report(errOut, err)
	}
	if err := ctrl.Add(ctx, title); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		output.Notice(out, tasklist.MsgAdded)
	}
	return exitcode.Success
}
