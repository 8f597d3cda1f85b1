// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"todo/internal/gateway"
)

// ErrNotFound is returned when a task is not found.
var ErrNotFound = &gateway.RemoteError{Status: http.StatusNotFound, Message: "Todo not found"}

// FakeGateway is an in-memory implementation of gateway.Gateway and
// gateway.TitleUpdater for testing.
type FakeGateway struct {
	mu    sync.RWMutex
	tasks []gateway.Task
	calls map[gateway.Op]int

	// Error injection for testing
	ListErr         error
	CreateErr       error
	DeleteErr       error
	DeleteAllErr    error
	SetCompletedErr error
	UpdateTitleErr  error
}

// NewFakeGateway creates an empty FakeGateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{calls: make(map[gateway.Op]int)}
}

// AddTask adds a task with a fixed ID.
func (f *FakeGateway) AddTask(id, title string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, gateway.Task{ID: id, Title: title, Completed: completed})
}

// Tasks returns a copy of the server-side tasks.
func (f *FakeGateway) Tasks() []gateway.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]gateway.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many times op was invoked, failed calls included.
func (f *FakeGateway) Calls(op gateway.Op) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[op]
}

// TotalCalls returns the number of gateway invocations of any kind.
func (f *FakeGateway) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeGateway) record(op gateway.Op) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func fail(op gateway.Op, err error) error {
	var re *gateway.RemoteError
	if errors.As(err, &re) {
		c := *re
		c.Op = op
		return &c
	}
	return &gateway.RemoteError{Op: op, Err: err}
}

// List implements gateway.Gateway.
func (f *FakeGateway) List(ctx context.Context) ([]gateway.Task, error) {
	f.record(gateway.OpList)
	if f.ListErr != nil {
		return nil, fail(gateway.OpList, f.ListErr)
	}
	return f.Tasks(), nil
}

// Create implements gateway.Gateway.
func (f *FakeGateway) Create(ctx context.Context, title string) (gateway.Task, error) {
	f.record(gateway.OpCreate)
	if f.CreateErr != nil {
		return gateway.Task{}, fail(gateway.OpCreate, f.CreateErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t := gateway.Task{ID: uuid.NewString(), Title: title}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// Delete implements gateway.Gateway.
func (f *FakeGateway) Delete(ctx context.Context, id string) error {
	f.record(gateway.OpDelete)
	if f.DeleteErr != nil {
		return fail(gateway.OpDelete, f.DeleteErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return fail(gateway.OpDelete, ErrNotFound)
}

// DeleteAll implements gateway.Gateway.
func (f *FakeGateway) DeleteAll(ctx context.Context) error {
	f.record(gateway.OpDeleteAll)
	if f.DeleteAllErr != nil {
		return fail(gateway.OpDeleteAll, f.DeleteAllErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = nil
	return nil
}

// SetCompleted implements gateway.Gateway.
func (f *FakeGateway) SetCompleted(ctx context.Context, id string, completed bool) error {
	f.record(gateway.OpSetCompleted)
	if f.SetCompletedErr != nil {
		return fail(gateway.OpSetCompleted, f.SetCompletedErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Completed = completed
			return nil
		}
	}
	return fail(gateway.OpSetCompleted, ErrNotFound)
}

// UpdateTitle implements gateway.TitleUpdater.
func (f *FakeGateway) UpdateTitle(ctx context.Context, id, title string) error {
	f.record(gateway.OpUpdateTitle)
	if f.UpdateTitleErr != nil {
		return fail(gateway.OpUpdateTitle, f.UpdateTitleErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Title = title
			return nil
		}
	}
	return fail(gateway.OpUpdateTitle, ErrNotFound)
}
