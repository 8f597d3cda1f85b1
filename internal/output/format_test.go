package output

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"

	"todo/internal/gateway"
	"todo/internal/testutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatTask(t *testing.T) {
	tests := []struct {
		num  int
		task gateway.Task
		want string
	}{
		{1, gateway.Task{Title: "Buy milk"}, "   1  [ ] Buy milk\n"},
		{12, gateway.Task{Title: "Done", Completed: true}, "  12  [x] Done\n"},
		{1234, gateway.Task{Title: "Wide"}, "1234  [ ] Wide\n"},
		{3, gateway.Task{Title: "   "}, "   3  [ ] (untitled)\n"},
		{4, gateway.Task{Title: "a\r\nb"}, "   4  [ ] a  b\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		FormatTask(&buf, tt.num, tt.task)
		if got := buf.String(); got != tt.want {
			t.Errorf("FormatTask(%d, %q) = %q, want %q", tt.num, tt.task.Title, got, tt.want)
		}
	}
}

func TestFormatList(t *testing.T) {
	var buf bytes.Buffer
	FormatList(&buf, []gateway.Task{
		{ID: "1", Title: "Buy milk"},
		{ID: "2", Title: "Walk dog", Completed: true},
		{ID: "3", Title: ""},
		{ID: "4", Title: "two\nlines"},
	}, false)
	testutil.Golden(t, "list", buf.Bytes())
}

func TestFormatList_Empty(t *testing.T) {
	var buf bytes.Buffer
	FormatList(&buf, nil, false)
	if got := buf.String(); got != EmptyList+"\n" {
		t.Errorf("got %q", got)
	}

	buf.Reset()
	FormatList(&buf, nil, true)
	if buf.Len() != 0 {
		t.Errorf("quiet empty list printed %q", buf.String())
	}
}

func TestErrorAndNotice(t *testing.T) {
	var buf bytes.Buffer
	Errorf(&buf, "task number out of range: %d", 9)
	Notice(&buf, "Todo added successfully!")
	want := "error: task number out of range: 9\nTodo added successfully!\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatStale(t *testing.T) {
	var buf bytes.Buffer
	FormatStale(&buf, time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local))
	want := "offline: showing todos cached 2026-03-01 09:30\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
