// Package googletasks implements gateway.Gateway on the user's default
// Google Tasks list.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/gateway"
	"todo/internal/session"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks fetched per page.
	PageSize = 100

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"

	defaultTimeout = 10 * time.Second
)

// ErrTimeout is the cause of a RemoteError for a call that ran out of time.
var ErrTimeout = errors.New("request timed out")

// Client implements gateway.Gateway and gateway.TitleUpdater using the
// Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// OAuthConfig reads the OAuth client credentials file.
func OAuthConfig(clientPath string) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(clientPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// New creates a client whose token is read from store on every request and
// refreshed with the credentials in clientPath.
func New(ctx context.Context, clientPath string, store *session.Store, timeout time.Duration) (*Client, error) {
	oauthConfig, err := OAuthConfig(clientPath)
	if err != nil {
		return nil, err
	}
	src := &storedSource{ctx: ctx, conf: oauthConfig, store: store}
	httpClient := &http.Client{Transport: &oauth2.Transport{Source: src}}
	return NewWithHTTPClient(ctx, httpClient, timeout)
}

// storedSource refreshes the stored token when it expires and writes the
// refreshed token back.
type storedSource struct {
	ctx   context.Context
	conf  *oauth2.Config
	store *session.Store
}

func (s *storedSource) Token() (*oauth2.Token, error) {
	tok, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if tok.Valid() {
		return tok, nil
	}
	fresh, err := s.conf.TokenSource(s.ctx, tok).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, fmt.Errorf("%w: token refresh rejected: %v", session.ErrAuthRequired, err)
		}
		return nil, err
	}
	if fresh.AccessToken != tok.AccessToken {
		if err := s.store.Save(fresh); err != nil {
			return nil, fmt.Errorf("failed to save refreshed token: %w", err)
		}
	}
	return fresh, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{svc: svc, listID: DefaultListID, timeout: timeout}, nil
}

// List implements gateway.Gateway. Completed and hidden tasks are included.
func (c *Client) List(ctx context.Context) ([]gateway.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []gateway.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(gateway.OpList, err)
	}
	return result, nil
}

// Create implements gateway.Gateway.
func (c *Client) Create(ctx context.Context, title string) (gateway.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return gateway.Task{}, wrapError(gateway.OpCreate, err)
	}
	return fromAPI(t), nil
}

// Delete implements gateway.Gateway.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(gateway.OpDelete, err)
	}
	return nil
}

// DeleteAll implements gateway.Gateway. The API has no bulk delete for open
// tasks, so each task is deleted in turn; the first failure stops the run.
func (c *Client) DeleteAll(ctx context.Context) error {
	all, err := c.List(ctx)
	if err != nil {
		return relabel(err, gateway.OpDeleteAll)
	}
	for _, t := range all {
		if err := c.Delete(ctx, t.ID); err != nil {
			return relabel(err, gateway.OpDeleteAll)
		}
	}
	return nil
}

// SetCompleted implements gateway.Gateway.
func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := &tasks.Task{Status: statusNeedsAction, NullFields: []string{"Completed"}}
	if completed {
		patch = &tasks.Task{Status: statusCompleted}
	}
	if _, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do(); err != nil {
		return wrapError(gateway.OpSetCompleted, err)
	}
	return nil
}

// UpdateTitle implements gateway.TitleUpdater.
func (c *Client) UpdateTitle(ctx context.Context, id, title string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.svc.Tasks.Patch(c.listID, id, &tasks.Task{Title: title}).Context(ctx).Do(); err != nil {
		return wrapError(gateway.OpUpdateTitle, err)
	}
	return nil
}

func fromAPI(t *tasks.Task) gateway.Task {
	return gateway.Task{
		ID:        t.Id,
		Title:     t.Title,
		Completed: t.Status == statusCompleted,
	}
}

// wrapError converts API errors into gateway errors.
func wrapError(op gateway.Op, err error) error {
	if errors.Is(err, session.ErrAuthRequired) {
		return session.ErrAuthRequired
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &gateway.RemoteError{Op: op, Err: ErrTimeout}
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &gateway.RemoteError{Op: op, Status: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return &gateway.RemoteError{Op: op, Err: err}
}

func relabel(err error, op gateway.Op) error {
	if re, ok := gateway.AsRemote(err); ok {
		c := *re
		c.Op = op
		return &c
	}
	return err
}
