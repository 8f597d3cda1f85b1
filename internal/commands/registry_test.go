package commands

import (
	"context"
	"flag"
	"io"
	"strings"
	"testing"

	"todo/internal/config"
	"todo/internal/tasklist"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (s stubCmd) Name() string                   { return s.name }
func (s stubCmd) Aliases() []string              { return s.aliases }
func (s stubCmd) Synopsis() string               { return "stub " + s.name }
func (s stubCmd) Usage() string                  { return "todo " + s.name }
func (s stubCmd) NeedsController() bool          { return false }
func (s stubCmd) RegisterFlags(fs *flag.FlagSet) {}
func (s stubCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	return 0
}

func TestRegistry_RejectsClashes(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stubCmd{name: "list", aliases: []string{"ls"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range []stubCmd{
		{name: "list"},
		{name: "ls"},
		{name: "other", aliases: []string{"ls"}},
		{name: ""},
	} {
		if err := r.Register(c); err == nil {
			t.Errorf("expected %q to be rejected", c.name)
		}
	}
	if got := len(r.All()); got != 1 {
		t.Errorf("expected 1 command, got %d", got)
	}
}

func TestRegistry_AllSortedOnce(t *testing.T) {
	r := NewRegistry()
	for _, c := range []stubCmd{{name: "rm", aliases: []string{"delete"}}, {name: "add"}, {name: "list"}} {
		if err := r.Register(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	if strings.Join(names, ",") != "add,list,rm" {
		t.Errorf("unexpected order: %v", names)
	}
}

func TestHelpText(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(stubCmd{name: "rm", aliases: []string{"delete"}})

	text := HelpText(r)
	if !strings.HasPrefix(text, "Usage:\n") {
		t.Errorf("expected usage header, got %q", text)
	}
	if !strings.Contains(text, "todo rm") || !strings.Contains(text, "stub rm (alias: delete)") {
		t.Errorf("expected rm line, got %q", text)
	}
}
