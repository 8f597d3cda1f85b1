package commands

import (
	"bytes"
	"testing"

	"todo/internal/exitcode"
	"todo/internal/gateway"
	"todo/internal/session"
	"todo/internal/tasklist"
)

func TestReport_RecreateHintWinsOverCause(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		first string
	}{
		{"duplicate after delete", tasklist.ErrDuplicateTitle, "error: edit interrupted: Todo already exists\n"},
		{"session gone after delete", session.ErrAuthRequired, "error: edit interrupted: not logged in (run: todo login)\n"},
		{"server error", &gateway.RemoteError{Op: gateway.OpCreate, Status: 500}, "error: edit interrupted: Something went wrong!\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errOut bytes.Buffer
			code := report(&errOut, &tasklist.RecreateError{Title: "Buy bread", Err: tt.cause})

			if code != exitcode.BackendError {
				t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
			}
			want := tt.first + "the todo may have been removed; restore it with: todo add Buy bread\n"
			if errOut.String() != want {
				t.Errorf("expected %q, got %q", want, errOut.String())
			}
		})
	}
}

func TestReport_PlainValidation(t *testing.T) {
	var errOut bytes.Buffer
	code := report(&errOut, tasklist.ErrDuplicateTitle)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errOut.String() != "error: Todo already exists\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}
