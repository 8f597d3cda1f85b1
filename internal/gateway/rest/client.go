// Package rest implements gateway.Gateway against the todo HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"todo/internal/gateway"
	"todo/internal/session"
)

const (
	listPath      = "/api/todo/get"
	savePath      = "/api/todo/save"
	deletePath    = "/api/todo/delete/"
	deleteAllPath = "/api/todo/delete-all"
	updatePath    = "/api/todo/update/"

	// DefaultTimeout bounds each request when none is configured.
	DefaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// ErrTimeout is the cause of a RemoteError for a request that ran out of time.
var ErrTimeout = errors.New("request timed out")

// Client implements gateway.Gateway and gateway.TitleUpdater over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New creates a client that asks src for the bearer credential on every
// request. A source failing with session.ErrAuthRequired fails the request
// with that error.
func New(ctx context.Context, baseURL string, src oauth2.TokenSource, timeout time.Duration) (*Client, error) {
	if src == nil {
		return nil, session.ErrAuthRequired
	}
	// oauth2.NewClient would cache the first token for good; the source is
	// asked directly so a new login is picked up.
	base := http.DefaultTransport
	if hc, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && hc.Transport != nil {
		base = hc.Transport
	}
	httpClient := &http.Client{Transport: &oauth2.Transport{Base: base, Source: src}}
	return NewWithHTTPClient(baseURL, httpClient, timeout)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// The HTTP client is responsible for authentication.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
	}, nil
}

type wireTask struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

func (w wireTask) task() gateway.Task {
	return gateway.Task{ID: w.ID, Title: w.Title, Completed: w.IsCompleted}
}

type listResponse struct {
	Todos []wireTask `json:"todos"`
}

// createResponse accepts both a bare record and one wrapped in "todo".
type createResponse struct {
	wireTask
	Todo *wireTask `json:"todo"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// List implements gateway.Gateway.
func (c *Client) List(ctx context.Context) ([]gateway.Task, error) {
	var resp listResponse
	if err := c.do(ctx, gateway.OpList, http.MethodGet, listPath, nil, &resp); err != nil {
		return nil, err
	}
	tasks := make([]gateway.Task, 0, len(resp.Todos))
	for _, w := range resp.Todos {
		tasks = append(tasks, w.task())
	}
	return tasks, nil
}

// Create implements gateway.Gateway.
func (c *Client) Create(ctx context.Context, title string) (gateway.Task, error) {
	var resp createResponse
	body := map[string]string{"title": title}
	if err := c.do(ctx, gateway.OpCreate, http.MethodPost, savePath, body, &resp); err != nil {
		return gateway.Task{}, err
	}
	if resp.Todo != nil {
		return resp.Todo.task(), nil
	}
	return resp.wireTask.task(), nil
}

// Delete implements gateway.Gateway.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, gateway.OpDelete, http.MethodDelete, deletePath+url.PathEscape(id), nil, nil)
}

// DeleteAll implements gateway.Gateway.
func (c *Client) DeleteAll(ctx context.Context) error {
	return c.do(ctx, gateway.OpDeleteAll, http.MethodDelete, deleteAllPath, nil, nil)
}

// SetCompleted implements gateway.Gateway.
func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) error {
	body := map[string]bool{"isCompleted": completed}
	return c.do(ctx, gateway.OpSetCompleted, http.MethodPut, updatePath+url.PathEscape(id), body, nil)
}

// UpdateTitle implements gateway.TitleUpdater.
func (c *Client) UpdateTitle(ctx context.Context, id, title string) error {
	body := map[string]string{"title": title}
	return c.do(ctx, gateway.OpUpdateTitle, http.MethodPut, updatePath+url.PathEscape(id), body, nil)
}

func (c *Client) do(ctx context.Context, op gateway.Op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &gateway.RemoteError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &gateway.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &gateway.RemoteError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: readMessage(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &gateway.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("invalid response: %w", err)}
	}
	return nil
}

// readMessage extracts {"message": "..."} from an error body, if present.
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return ""
	}
	return strings.TrimSpace(er.Message)
}

// wrapError classifies transport errors.
func wrapError(op gateway.Op, err error) error {
	if errors.Is(err, session.ErrAuthRequired) {
		return session.ErrAuthRequired
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &gateway.RemoteError{Op: op, Err: ErrTimeout}
	}
	return &gateway.RemoteError{Op: op, Err: err}
}
