package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/tasklist"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorDone   = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	colorError  = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleDone     = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleOK       = lipgloss.NewStyle().Foreground(colorDone)
	styleErr      = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleStatus   = lipgloss.NewStyle().MarginTop(1)
)

const (
	helpList    = "j/k move • space toggle • a add • e edit • d delete • D delete all • r reload • q quit"
	helpInput   = "enter save • esc cancel"
	helpConfirm = "y confirm • any other key cancels"
)

func (m model) View() string {
	if m.mode == modeEntry {
		return m.viewEntry()
	}

	var b strings.Builder
	state := m.ctrl.State()

	header := styleTitle.Render("Todos")
	if m.busy > 0 {
		header += styleMuted.Render("  syncing…")
	} else if state.Stale {
		header += styleMuted.Render("  offline copy")
	}
	b.WriteString(header + "\n\n")

	if len(state.Tasks) == 0 {
		if state.Loaded || state.Stale {
			b.WriteString(styleMuted.Render("No todos yet. Press a to add one.") + "\n")
		} else {
			b.WriteString(styleMuted.Render("Loading…") + "\n")
		}
	}
	for i, t := range state.Tasks {
		check := "[ ]"
		title := t.Title
		if t.Completed {
			check = "[x]"
			title = styleDone.Render(title)
		}
		line := fmt.Sprintf("%s %s", check, title)
		if i == m.cursor && m.mode != modeInput {
			b.WriteString(styleSelected.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	switch m.mode {
	case modeInput:
		label := "New todo"
		if m.editingID != "" {
			label = "Edit todo"
		}
		b.WriteString("\n" + styleMuted.Render(label) + "\n" + m.input.View() + "\n")
	case modeConfirm:
		prompt := tasklist.PromptDelete
		if m.confirm == confirmDeleteAll {
			prompt = tasklist.PromptDeleteAll
		}
		b.WriteString("\n" + styleErr.Render(prompt) + " (y/n)\n")
	}

	b.WriteString(m.viewStatus())
	b.WriteString("\n" + styleMuted.Render(m.help()) + "\n")
	return b.String()
}

func (m model) viewEntry() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Todos") + "\n\n")
	if m.opts.TokenEntry {
		b.WriteString("You are not logged in. Paste your access token to continue.\n\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(m.viewStatus())
		b.WriteString("\n" + styleMuted.Render("enter log in • esc quit") + "\n")
		return b.String()
	}
	b.WriteString("You are not logged in.\n")
	b.WriteString("Run: todo login\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n" + styleMuted.Render("q quit") + "\n")
	return b.String()
}

func (m model) viewStatus() string {
	if m.status == "" {
		return "\n"
	}
	style := styleOK
	if m.statusErr {
		style = styleErr
	}
	return styleStatus.Render(style.Render(m.status)) + "\n"
}

func (m model) help() string {
	switch m.mode {
	case modeInput:
		return helpInput
	case modeConfirm:
		return helpConfirm
	}
	return helpList
}
