package gateway

import "context"

// Gateway defines the remote task store operations for the session user.
// Controllers never import a transport directly.
type Gateway interface {
	// List returns the user's tasks in server order.
	List(ctx context.Context) ([]Task, error)

	// Create creates a task and returns the record with its server-assigned ID.
	Create(ctx context.Context, title string) (Task, error)

	// Delete deletes a task by ID.
	Delete(ctx context.Context, id string) error

	// DeleteAll deletes every task of the user.
	DeleteAll(ctx context.Context) error

	// SetCompleted sets the completion flag of a task.
	SetCompleted(ctx context.Context, id string, completed bool) error
}

// TitleUpdater is implemented by gateways that can change a title in place.
// Without it an edit has to delete the task and create it again.
type TitleUpdater interface {
	UpdateTitle(ctx context.Context, id, title string) error
}

// Basic hides optional capabilities of gw, leaving only the Gateway methods.
func Basic(gw Gateway) Gateway {
	if b, ok := gw.(basic); ok {
		return b
	}
	return basic{gw}
}

type basic struct {
	gw Gateway
}

func (b basic) List(ctx context.Context) ([]Task, error) { return b.gw.List(ctx) }

func (b basic) Create(ctx context.Context, title string) (Task, error) {
	return b.gw.Create(ctx, title)
}

func (b basic) Delete(ctx context.Context, id string) error { return b.gw.Delete(ctx, id) }

func (b basic) DeleteAll(ctx context.Context) error { return b.gw.DeleteAll(ctx) }

func (b basic) SetCompleted(ctx context.Context, id string, completed bool) error {
	return b.gw.SetCompleted(ctx, id, completed)
}
