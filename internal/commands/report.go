package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/gateway"
	"todo/internal/output"
	"todo/internal/session"
	"todo/internal/tasklist"
)

// LoginHint is appended to errors that a new login would fix.
const LoginHint = "(run: todo login)"

// report prints err to errOut and returns its exit code.
func report(errOut io.Writer, err error) int {
	var ve *tasklist.ValidationError
	var rce *tasklist.RecreateError

	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &rce):
		// Checked first: the todo is gone whatever the cause was.
		output.Errorf(errOut, "edit interrupted: %s", userMessage(rce.Err))
		fmt.Fprintf(errOut, "the todo may have been removed; restore it with: todo add %s\n", rce.Title)
		return exitcode.BackendError
	case errors.Is(err, session.ErrAuthRequired):
		output.Errorf(errOut, "not logged in %s", LoginHint)
		return exitcode.AuthError
	case errors.As(err, &ve):
		output.Error(errOut, ve.Message)
		return exitcode.UserError
	}

	if re, ok := gateway.AsRemote(err); ok {
		if re.Unauthorized() {
			output.Errorf(errOut, "%s %s", re.UserMessage(), LoginHint)
			return exitcode.AuthError
		}
		output.Error(errOut, re.UserMessage())
		return exitcode.BackendError
	}

	output.Errorf(errOut, "%v", err)
	return exitcode.BackendError
}

func userMessage(err error) string {
	if errors.Is(err, session.ErrAuthRequired) {
		return "not logged in " + LoginHint
	}
	var ve *tasklist.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if re, ok := gateway.AsRemote(err); ok {
		return re.UserMessage()
	}
	return err.Error()
}

// stdinConfirmer asks on errOut and reads the answer from in.
type stdinConfirmer struct {
	in     io.Reader
	errOut io.Writer
}

// Confirm implements tasklist.Confirmer. Only "y" and "yes" confirm.
func (c stdinConfirmer) Confirm(prompt string) bool {
	if c.in == nil {
		return false
	}
	fmt.Fprintf(c.errOut, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.errOut)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// confirmer returns a Confirmer that always agrees when yes is set.
func confirmer(yes bool, in io.Reader, errOut io.Writer) tasklist.Confirmer {
	if yes {
		return tasklist.ConfirmFunc(func(string) bool { return true })
	}
	return stdinConfirmer{in: in, errOut: errOut}
}

// loadAndResolve loads the list and resolves the reference in args[0].
func loadAndResolve(ctx context.Context, ctrl *tasklist.Controller, args []string, errOut io.Writer) (gateway.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return gateway.Task{}, exitcode.UserError
	}
	if err := ctrl.Load(ctx); err != nil {
		return gateway.Task{}, report(errOut, err)
	}
	task, err := ref.Resolve(ctrl.Tasks())
	if err != nil {
		var ve *tasklist.ValidationError
		if errors.As(err, &ve) {
			return gateway.Task{}, report(errOut, err)
		}
		output.Errorf(errOut, "%v", err)
		return gateway.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}

// cancelled reports a declined confirmation. It is not a failure.
func cancelled(quiet bool, out io.Writer) int {
	if !quiet {
		fmt.Fprintln(out, "cancelled")
	}
	return exitcode.Success
}
