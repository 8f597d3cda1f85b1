package tasklist

import (
	"context"

	"todo/internal/gateway"
)

// Pending is an optimistic change applied locally and not yet confirmed.
type Pending struct {
	ID string

	// Before is the snapshot restored on failure.
	Before gateway.Task

	// After is what the list shows until the change settles.
	After gateway.Task

	gw gateway.Gateway
}

// Confirm issues the server call for the change. It does not touch local
// state, so an event loop can run it off-loop and Settle the result.
func (p *Pending) Confirm(ctx context.Context) error {
	return p.gw.SetCompleted(ctx, p.ID, p.After.Completed)
}

// ToggleCompleted flips a task's completion locally, confirms it with the
// server and restores the snapshot if that fails.
func (c *Controller) ToggleCompleted(ctx context.Context, id string) error {
	p, err := c.BeginToggle(id)
	if err != nil {
		return err
	}
	return c.Settle(ctx, p, p.Confirm(ctx))
}

// BeginToggle snapshots the task and flips its completion in place.
func (c *Controller) BeginToggle(id string) (*Pending, error) {
	if err := c.checkSession(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return nil, ErrUnknownTask
	}
	before := c.state.Tasks[i]
	after := before
	after.Completed = !before.Completed
	c.state.Tasks[i] = after
	c.state.Version++

	return &Pending{ID: id, Before: before, After: after, gw: c.gw}, nil
}

// Settle resolves p with the result of its Confirm call. On failure the task
// is replaced by its snapshot, if it is still in the list, and the error is
// returned as a RemoteError.
func (c *Controller) Settle(ctx context.Context, p *Pending, err error) error {
	if err == nil {
		c.log.Debug("toggle confirmed", "id", p.ID, "completed", p.After.Completed)
		c.saveMirror(ctx, c.Tasks())
		return nil
	}

	c.mu.Lock()
	if i := c.indexLocked(p.ID); i >= 0 {
		c.state.Tasks[i] = p.Before
		c.state.Version++
	}
	c.mu.Unlock()

	c.log.Debug("toggle rolled back", "id", p.ID, "err", err)
	return remote(gateway.OpSetCompleted, err)
}
