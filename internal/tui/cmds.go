package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/tasklist"
)

// resultMsg reports a finished controller operation.
type resultMsg struct {
	notice string
	err    error
}

type restoredMsg struct{}

// confirmed is used once the user already answered the view's own prompt.
var confirmed = tasklist.ConfirmFunc(func(string) bool { return true })

func (m model) restore() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		// Nothing cached is not worth a status line.
		_ = ctrl.Restore(ctx)
		return restoredMsg{}
	}
}

func (m model) load() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return resultMsg{err: ctrl.Load(ctx)}
	}
}

func (m model) add(title string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		if err := ctrl.Add(ctx, title); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: tasklist.MsgAdded}
	}
}

func (m model) edit(id, title string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		if err := ctrl.Edit(ctx, id, title); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: tasklist.MsgUpdated}
	}
}

func (m model) remove(id string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		if err := ctrl.Remove(ctx, id, confirmed); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: tasklist.MsgDeleted}
	}
}

func (m model) removeAll() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		if err := ctrl.RemoveAll(ctx, confirmed); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{notice: tasklist.MsgDeletedAll}
	}
}

// settle sends the toggle already shown locally and rolls it back on failure.
func (m model) settle(p *tasklist.Pending) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return resultMsg{err: ctrl.Settle(ctx, p, p.Confirm(ctx))}
	}
}
