// Package tui is the interactive todo list.
package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/gateway"
	"todo/internal/session"
	"todo/internal/tasklist"
)

type mode int

const (
	modeList mode = iota
	modeInput
	modeConfirm
	modeEntry
)

type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmDeleteAll
)

// Options configures the interactive view.
type Options struct {
	// Store holds the session. On the entry screen a pasted token is saved
	// here when TokenEntry is set.
	Store *session.Store

	// TokenEntry enables pasting a bearer token on the entry screen.
	// Without it the entry screen only explains how to log in.
	TokenEntry bool
}

// msgRecreateHint warns that saving an edit deletes and re-adds the todo.
const msgRecreateHint = "Saving replaces the todo."

type model struct {
	ctx  context.Context
	ctrl *tasklist.Controller
	opts Options

	mode      mode
	cursor    int
	input     textinput.Model
	editingID string

	confirm   confirmKind
	confirmID string

	status    string
	statusErr bool
	busy      int
	width     int
}

// Run shows the view until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl *tasklist.Controller, opts Options, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(newModel(ctx, ctrl, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(ctx context.Context, ctrl *tasklist.Controller, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = tasklist.MaxTitleLen
	ti.Width = 50

	m := model{ctx: ctx, ctrl: ctrl, opts: opts, input: ti}
	if opts.Store == nil || !opts.Store.Active() {
		m = m.enterEntry("")
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.mode == modeEntry {
		return nil
	}
	return tea.Batch(m.restore(), m.load())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 20 {
			m.input.Width = w
		}
		return m, nil

	case restoredMsg:
		return m.clampCursor(), nil

	case resultMsg:
		return m.handleResult(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEntry:
			return m.updateEntry(msg)
		case modeInput:
			return m.updateInput(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.ctrl.Tasks()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}

	case " ":
		task, ok := m.selected(tasks)
		if !ok {
			return m, nil
		}
		p, err := m.ctrl.BeginToggle(task.ID)
		if err != nil {
			return m.handleResult(resultMsg{err: err}), nil
		}
		return m.started(), m.settle(p)

	case "a", "enter":
		m.mode = modeInput
		m.editingID = ""
		m.input.SetValue(m.ctrl.Draft())
		m.input.CursorEnd()
		m.input.Focus()

	case "e":
		task, ok := m.selected(tasks)
		if !ok {
			return m, nil
		}
		m.mode = modeInput
		m.editingID = task.ID
		m.input.SetValue(task.Title)
		m.input.CursorEnd()
		m.input.Focus()
		hint := tasklist.MsgEditHint
		if !m.ctrl.CanUpdateTitle() {
			hint += " " + msgRecreateHint
		}
		m = m.setStatus(hint, false)

	case "d":
		task, ok := m.selected(tasks)
		if !ok {
			return m, nil
		}
		m.mode = modeConfirm
		m.confirm = confirmDelete
		m.confirmID = task.ID

	case "D":
		if len(tasks) == 0 {
			return m.setStatus(tasklist.ErrNothingToDelete.Message, true), nil
		}
		m.mode = modeConfirm
		m.confirm = confirmDeleteAll

	case "r":
		return m.started(), m.load()
	}
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.editingID == "" {
			m.ctrl.SetDraft(m.input.Value())
		}
		m.mode = modeList
		m.editingID = ""
		m.input.Blur()
		m.input.Reset()
		return m.setStatus("", false), nil

	case tea.KeyEnter:
		title := m.input.Value()
		if _, err := tasklist.ValidateTitle(title); err != nil {
			return m.setStatus(errorText(err), true), nil
		}
		id := m.editingID
		m.mode = modeList
		m.editingID = ""
		m.input.Blur()
		m.input.Reset()
		if id == "" {
			return m.started(), m.add(title)
		}
		return m.started(), m.edit(id, title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch strings.ToLower(msg.String()) {
	case "y":
		if m.confirm == confirmDeleteAll {
			return m.started(), m.removeAll()
		}
		return m.started(), m.remove(m.confirmID)
	}
	m.confirmID = ""
	return m.setStatus("cancelled", false), nil
}

func (m model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.opts.TokenEntry {
		if msg.String() == "q" || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		tok := session.Bearer(m.input.Value())
		if tok.AccessToken == "" {
			return m.setStatus("token required", true), nil
		}
		if err := m.opts.Store.Save(tok); err != nil {
			return m.setStatus("failed to save session: "+err.Error(), true), nil
		}
		m.mode = modeList
		m.input.Blur()
		m.input.Reset()
		m.input.EchoMode = textinput.EchoNormal
		m.input.Placeholder = "What needs doing?"
		m = m.setStatus("", false)
		return m.started(), m.load()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// enterEntry switches to the entry screen, keeping the list hidden.
func (m model) enterEntry(status string) model {
	m.mode = modeEntry
	m.editingID = ""
	m.input.Reset()
	if m.opts.TokenEntry {
		m.input.Placeholder = "Paste your token"
		m.input.EchoMode = textinput.EchoPassword
		m.input.Focus()
	}
	return m.setStatus(status, status != "")
}

func (m model) handleResult(msg resultMsg) model {
	if m.busy > 0 {
		m.busy--
	}
	m = m.clampCursor()

	switch {
	case msg.err == nil:
		if msg.notice != "" {
			m = m.setStatus(msg.notice, false)
		}
		return m
	case errors.Is(msg.err, tasklist.ErrNotConfirmed):
		return m.setStatus("cancelled", false)
	}

	// An interrupted edit already removed the todo; the new title must
	// survive whatever happens next.
	var rce *tasklist.RecreateError
	recreate := errors.As(msg.err, &rce)

	if isAuthError(msg.err) {
		// The mirror is best effort; a failed clear changes nothing here.
		_ = m.ctrl.Discard(m.ctx)
		m.cursor = 0
		if recreate {
			m.ctrl.SetDraft(rce.Title)
		}
		return m.enterEntry("Session expired, please log in")
	}
	if recreate {
		m.ctrl.SetDraft(rce.Title)
	}
	return m.setStatus(errorText(msg.err), true)
}

func (m model) selected(tasks []gateway.Task) (gateway.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return gateway.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m model) clampCursor() model {
	n := len(m.ctrl.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m model) started() model {
	m.busy++
	return m
}

func (m model) setStatus(text string, isErr bool) model {
	m.status = text
	m.statusErr = isErr
	return m
}

func isAuthError(err error) bool {
	if errors.Is(err, session.ErrAuthRequired) {
		return true
	}
	re, ok := gateway.AsRemote(err)
	return ok && re.Unauthorized()
}

// errorText is the status line text for err.
func errorText(err error) string {
	var ve *tasklist.ValidationError
	var rce *tasklist.RecreateError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &rce):
		return "Edit interrupted: " + errorText(rce.Err) + ". Your text is kept, press a to save it again."
	}
	if re, ok := gateway.AsRemote(err); ok {
		return re.UserMessage()
	}
	return gateway.MsgGeneric
}
