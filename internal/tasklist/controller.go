// Package tasklist keeps a local task list consistent with the remote store.
//
// Membership changes (create, delete, edit) are followed by a full reload of
// the authoritative list. Completion toggles are applied optimistically and
// rolled back from a snapshot if the server rejects them. Delete-all clears
// the local list without a reload since the result is known.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"todo/internal/gateway"
	"todo/internal/session"
)

// Confirmation prompts for destructive actions.
const (
	PromptDelete    = "Do you want to delete this todo?"
	PromptDeleteAll = "Do you really want to delete all todos?"
)

// Success notices.
const (
	MsgAdded      = "Todo added successfully!"
	MsgDeleted    = "Todo deleted successfully!"
	MsgDeletedAll = "All todos deleted successfully!"
	MsgUpdated    = "Todo updated successfully!"
	MsgEditHint   = "Edit your todo and save it."
)

// ErrNotConfirmed is returned when the user declines a destructive action.
var ErrNotConfirmed = errors.New("not confirmed")

// Session reports whether a credential is present.
type Session interface {
	Active() bool
}

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// ErrNoSnapshot is returned by Mirror.Load when nothing was saved yet.
var ErrNoSnapshot = errors.New("no cached todos")

// Mirror is a best-effort local copy of the last known list.
type Mirror interface {
	Save(ctx context.Context, tasks []gateway.Task) error
	Load(ctx context.Context) ([]gateway.Task, error)
	Clear(ctx context.Context) error
}

// State is the versioned local list. Version increases on every transition.
type State struct {
	Version uint64
	Tasks   []gateway.Task

	// Loaded is true once the list came from the server.
	Loaded bool

	// Stale is true while the list shows mirror content.
	Stale bool
}

// RecreateError reports an edit that deleted the task but could not create
// it again. The task is gone server-side; Title is what the user wanted.
type RecreateError struct {
	Title string
	Err   error
}

func (e *RecreateError) Error() string {
	return fmt.Sprintf("todo was removed but could not be saved again as %q: %v", e.Title, e.Err)
}

func (e *RecreateError) Unwrap() error { return e.Err }

// Controller mediates all task operations against a gateway.
// It is safe for use from multiple goroutines, but concurrent actions on the
// same task are not serialized: the last write wins.
type Controller struct {
	gw      gateway.Gateway
	session Session
	mirror  Mirror
	log     *slog.Logger

	mu    sync.Mutex
	state State
	draft string
}

// Option configures a Controller.
type Option func(*Controller)

// WithMirror keeps m updated after every reconciliation.
func WithMirror(m Mirror) Option {
	return func(c *Controller) { c.mirror = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a Controller. sess is consulted before every gateway call.
func New(gw gateway.Gateway, sess Session, opts ...Option) *Controller {
	c := &Controller{
		gw:      gw,
		session: sess,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Tasks = cloneTasks(c.state.Tasks)
	return s
}

// Tasks returns a copy of the current list.
func (c *Controller) Tasks() []gateway.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTasks(c.state.Tasks)
}

// Find returns the local task with the given ID.
func (c *Controller) Find(id string) (gateway.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.state.Tasks[i], true
	}
	return gateway.Task{}, false
}

// Draft returns the pending input text.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the pending input text.
func (c *Controller) SetDraft(s string) {
	c.mu.Lock()
	c.draft = s
	c.mu.Unlock()
}

// CanUpdateTitle reports whether edits are a single server call.
func (c *Controller) CanUpdateTitle() bool {
	_, ok := c.gw.(gateway.TitleUpdater)
	return ok
}

// Load replaces the local list with the server's. On failure the list is
// left as it was.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.checkSession(); err != nil {
		return err
	}
	tasks, err := c.gw.List(ctx)
	if err != nil {
		c.log.Debug("load failed", "err", err)
		return remote(gateway.OpList, err)
	}
	c.replace(tasks)
	c.log.Debug("list reconciled", "tasks", len(tasks))
	c.saveMirror(ctx, tasks)
	return nil
}

// Add validates title against the local list, creates it and reloads.
// The draft is cleared only when the create succeeded.
func (c *Controller) Add(ctx context.Context, title string) error {
	c.mu.Lock()
	c.draft = title
	existing := cloneTasks(c.state.Tasks)
	c.mu.Unlock()

	clean, err := ValidateTitle(title)
	if err != nil {
		return err
	}
	if err := checkDuplicate(existing, clean, ""); err != nil {
		return err
	}
	if err := c.checkSession(); err != nil {
		return err
	}

	created, err := c.gw.Create(ctx, clean)
	if err != nil {
		return remote(gateway.OpCreate, err)
	}
	c.log.Debug("task created", "id", created.ID)

	c.SetDraft("")
	return c.Load(ctx)
}

// Remove deletes a task after confirmation and reloads.
func (c *Controller) Remove(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(PromptDelete) {
		return ErrNotConfirmed
	}
	if err := c.checkSession(); err != nil {
		return err
	}
	if err := c.gw.Delete(ctx, id); err != nil {
		return remote(gateway.OpDelete, err)
	}
	return c.Load(ctx)
}

// RemoveAll deletes every task after confirmation and clears the local list.
func (c *Controller) RemoveAll(ctx context.Context, confirm Confirmer) error {
	c.mu.Lock()
	empty := len(c.state.Tasks) == 0
	c.mu.Unlock()
	if empty {
		return ErrNothingToDelete
	}
	if confirm == nil || !confirm.Confirm(PromptDeleteAll) {
		return ErrNotConfirmed
	}
	if err := c.checkSession(); err != nil {
		return err
	}
	if err := c.gw.DeleteAll(ctx); err != nil {
		return remote(gateway.OpDeleteAll, err)
	}
	c.replace(nil)
	c.saveMirror(ctx, nil)
	return nil
}

// BeginEdit deletes the task, prefills the draft with currentTitle and
// reloads. The user saves the draft to finish the edit. A failed delete
// leaves the draft alone; if the reload fails, the task stays removed and
// only the draft remains.
func (c *Controller) BeginEdit(ctx context.Context, id, currentTitle string) error {
	if err := c.checkSession(); err != nil {
		return err
	}
	if err := c.gw.Delete(ctx, id); err != nil {
		return remote(gateway.OpDelete, err)
	}
	c.SetDraft(currentTitle)
	return c.Load(ctx)
}

// Edit changes a task's title. It is one update call when the gateway
// supports it; otherwise the task is deleted and created again, which may
// fail halfway with a *RecreateError.
func (c *Controller) Edit(ctx context.Context, id, title string) error {
	clean, err := ValidateTitle(title)
	if err != nil {
		return err
	}
	current, _ := c.Find(id)
	if err := checkDuplicate(c.Tasks(), clean, id); err != nil {
		return err
	}
	if err := c.checkSession(); err != nil {
		return err
	}

	up, ok := c.gw.(gateway.TitleUpdater)
	if ok {
		if err := up.UpdateTitle(ctx, id, clean); err != nil {
			return remote(gateway.OpUpdateTitle, err)
		}
		c.SetDraft("")
		return c.Load(ctx)
	}

	if err := c.BeginEdit(ctx, id, current.Title); err != nil {
		if isAfterDelete(err) {
			return &RecreateError{Title: clean, Err: err}
		}
		return err
	}
	if err := c.Add(ctx, clean); err != nil {
		return &RecreateError{Title: clean, Err: err}
	}
	return nil
}

// Restore shows the mirror content until the first successful load.
func (c *Controller) Restore(ctx context.Context) error {
	if c.mirror == nil {
		return nil
	}
	tasks, err := c.mirror.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		c.log.Debug("mirror empty")
		return nil
	}
	if err != nil {
		c.log.Warn("mirror read failed", "err", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loaded {
		return nil
	}
	c.state.Tasks = cloneTasks(tasks)
	c.state.Stale = true
	c.state.Version++
	return nil
}

// Discard drops all local state and the mirror, as on logout.
func (c *Controller) Discard(ctx context.Context) error {
	c.mu.Lock()
	c.state = State{Version: c.state.Version + 1}
	c.draft = ""
	c.mu.Unlock()

	if c.mirror == nil {
		return nil
	}
	return c.mirror.Clear(ctx)
}

func (c *Controller) checkSession() error {
	if c.session == nil || !c.session.Active() {
		return session.ErrAuthRequired
	}
	return nil
}

func (c *Controller) replace(tasks []gateway.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Tasks = cloneTasks(tasks)
	c.state.Loaded = true
	c.state.Stale = false
	c.state.Version++
}

func (c *Controller) saveMirror(ctx context.Context, tasks []gateway.Task) {
	if c.mirror == nil {
		return
	}
	if err := c.mirror.Save(ctx, tasks); err != nil {
		c.log.Warn("mirror write failed", "err", err)
	}
}

func (c *Controller) indexLocked(id string) int {
	for i, t := range c.state.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// remote classifies err as a RemoteError unless it already is one or is a
// missing session.
func remote(op gateway.Op, err error) error {
	if errors.Is(err, session.ErrAuthRequired) {
		return err
	}
	if _, ok := gateway.AsRemote(err); ok {
		return err
	}
	return &gateway.RemoteError{Op: op, Err: err}
}

// isAfterDelete reports whether a BeginEdit error came from the reload that
// follows a successful delete.
func isAfterDelete(err error) bool {
	re, ok := gateway.AsRemote(err)
	return ok && re.Op == gateway.OpList
}

func cloneTasks(tasks []gateway.Task) []gateway.Task {
	if tasks == nil {
		return nil
	}
	out := make([]gateway.Task, len(tasks))
	copy(out, tasks)
	return out
}
