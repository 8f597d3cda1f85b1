package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/tasklist"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips the completion flag, so
// running it on a completed todo reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string          { return "done" }
func (c *DoneCmd) Aliases() []string     { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string      { return "Toggle a todo's completion" }
func (c *DoneCmd) Usage() string         { return "todo done <ref>" }
func (c *DoneCmd) NeedsController() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	task, code := loadAndResolve(ctx, ctrl, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctrl.ToggleCompleted(ctx, task.ID); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		for i, t := range ctrl.Tasks() {
			if t.ID == task.ID {
				output.FormatTask(out, i+1, t)
			}
		}
	}
	return exitcode.Success
}
