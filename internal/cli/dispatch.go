// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"strings"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/session"
	"todo/internal/tasklist"
)

// ControllerFactory creates a Controller from config.
// Used to inject the backend during dispatch. The returned cleanup func is
// called after the command finishes.
type ControllerFactory func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*tasklist.Controller, func(), error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ControllerFactory
}

// NewDispatcher creates a new dispatcher with the given registry and controller factory.
func NewDispatcher(registry *commands.Registry, factory ControllerFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, in, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		output.Errorf(errOut, "unknown command: %s", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], in, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		output.Errorf(errOut, "unknown command: %s", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, in, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, in io.Reader, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		output.Error(errOut, flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		output.Errorf(errOut, "unknown flag: %s", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		output.Errorf(errOut, "%s", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logOut, closeLog := logWriter(cmd, cfg, errOut)
	defer closeLog()
	log := NewLogger(logOut, debug)
	log.Debug("dispatch", "command", cmd.Name(), "backend", cfg.Settings.Backend, "dir", cfg.Dir)

	var ctrl *tasklist.Controller
	if cmd.NeedsController() {
		if d.factory == nil {
			output.Error(errOut, "no backend configured")
			return exitcode.AuthError
		}
		var cleanup func()
		ctrl, cleanup, err = d.factory(ctx, cfg, log)
		if err != nil {
			if errors.Is(err, session.ErrAuthRequired) {
				output.Errorf(errOut, "not logged in %s", commands.LoginHint)
				return exitcode.AuthError
			}
			// Missing or broken backend credentials files.
			output.Errorf(errOut, "%s", err)
			return exitcode.AuthError
		}
		if cleanup != nil {
			defer cleanup()
		}
	}

	return cmd.Run(ctx, cfg, ctrl, positionalArgs, in, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		flagPart := errStr
		if i := strings.LastIndex(errStr, ": "); i >= 0 {
			flagPart = errStr[i+2:]
		}
		return "flag needs an argument: " + flagPart
	}

	// Unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}

// logWriter is errOut, except for commands that own the terminal: they log
// to the config dir's ui.log with --debug and nowhere otherwise.
func logWriter(cmd commands.Command, cfg *config.Config, errOut io.Writer) (io.Writer, func()) {
	owner, ok := cmd.(commands.TerminalOwner)
	if !ok || !owner.OwnsTerminal() {
		return errOut, func() {}
	}
	if !cfg.Debug {
		return io.Discard, func() {}
	}
	if err := cfg.EnsureDir(); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

// NewLogger returns the stderr logger: Debug level with --debug, otherwise
// only warnings.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
