// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/tasklist"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsController returns true if the command works on the task list.
	// Commands like help, version, login, logout return false.
	NeedsController() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// ctrl is nil if NeedsController() returns false.
	// args contains positional arguments after flag parsing.
	// in is where confirmations and pasted tokens are read from.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int
}

// TerminalOwner is implemented by commands that take over the terminal while
// they run. Their logs must not be written to stderr.
type TerminalOwner interface {
	OwnsTerminal() bool
}
