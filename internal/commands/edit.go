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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string          { return "edit" }
func (c *EditCmd) Aliases() []string     { return []string{"rename"} }
func (c *EditCmd) Synopsis() string      { return "Change a todo's title" }
func (c *EditCmd) Usage() string         { return "todo edit <ref> <title...>" }
func (c *EditCmd) NeedsController() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) < 2 {
		if len(args) == 0 {
			output.Error(errOut, ErrTaskRefRequired.Error())
		} else {
			output.Error(errOut, tasklist.ErrEmptyTitle.Message)
		}
		return exitcode.UserError
	}
	title := strings.Join(args[1:], " ")
	if _, err := tasklist.ValidateTitle(title); err != nil {
		return report(errOut, err)
	}

	task, code := loadAndResolve(ctx, ctrl, args[:1], errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctrl.Edit(ctx, task.ID, title); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		output.Notice(out, tasklist.MsgUpdated)
	}
	return exitcode.Success
}
