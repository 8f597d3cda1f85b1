// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"todo/internal/gateway"
)

var (
	doneTitle = color.New(color.FgGreen, color.CrossedOut)
	checkMark = color.New(color.FgGreen, color.Bold)
	notice    = color.New(color.FgGreen)
	warning   = color.New(color.FgYellow)
	errPrefix = color.New(color.FgRed, color.Bold)
	faint     = color.New(color.Faint)
)

// EmptyList is printed when there are no tasks.
const EmptyList = "No todos yet"

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, two spaces,
// checkbox, title). Completed titles are green and crossed out.
func FormatTask(w io.Writer, num int, task gateway.Task) {
	title := normalizeTitle(task.Title)
	if task.Completed {
		fmt.Fprintf(w, "%4d  [%s] %s\n", num, checkMark.Sprint("x"), doneTitle.Sprint(title))
		return
	}
	fmt.Fprintf(w, "%4d  [ ] %s\n", num, title)
}

// FormatList formats tasks numbered from 1, or EmptyList when there are none
// and quiet is false.
func FormatList(w io.Writer, tasks []gateway.Task, quiet bool) {
	if len(tasks) == 0 {
		if !quiet {
			fmt.Fprintln(w, faint.Sprint(EmptyList))
		}
		return
	}
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// FormatStale formats the marker shown above a list read from the cache.
func FormatStale(w io.Writer, savedAt time.Time) {
	fmt.Fprintln(w, warning.Sprintf("offline: showing todos cached %s", savedAt.Local().Format("2006-01-02 15:04")))
}

// Notice prints a success message.
func Notice(w io.Writer, msg string) {
	fmt.Fprintln(w, notice.Sprint(msg))
}

// Error prints "error: msg" with a red prefix.
func Error(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", errPrefix.Sprint("error:"), msg)
}

// Errorf is Error with formatting.
func Errorf(w io.Writer, format string, a ...any) {
	Error(w, fmt.Sprintf(format, a...))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
