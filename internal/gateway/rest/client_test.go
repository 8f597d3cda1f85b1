package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"todo/internal/gateway"
	"todo/internal/gateway/rest"
	"todo/internal/session"
)

type recorded struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recorded
	handler  http.HandlerFunc
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeAPI) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newServer(t *testing.T, h http.HandlerFunc) (*rest.Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{handler: h}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := rest.New(context.Background(), srv.URL, oauth2.StaticTokenSource(session.Bearer("secret")), time.Second)
	require.NoError(t, err)
	return c, api
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestList(t *testing.T) {
	c, api := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"todos": []map[string]any{
				{"_id": "a1", "title": "Buy milk", "isCompleted": false},
				{"_id": "b2", "title": "Walk dog", "isCompleted": true},
			},
		})
	})

	tasks, err := c.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []gateway.Task{
		{ID: "a1", Title: "Buy milk"},
		{ID: "b2", Title: "Walk dog", Completed: true},
	}, tasks)

	req := api.last()
	require.Equal(t, http.MethodGet, req.Method)
	require.Equal(t, "/api/todo/get", req.Path)
	require.Equal(t, "Bearer secret", req.Auth)
}

func TestList_EmptyTodos(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"todos": []any{}})
	})

	tasks, err := c.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestCreate(t *testing.T) {
	c, api := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"_id": "n1", "title": "New", "isCompleted": false})
	})

	task, err := c.Create(context.Background(), "New")
	require.NoError(t, err)
	require.Equal(t, gateway.Task{ID: "n1", Title: "New"}, task)

	req := api.last()
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/api/todo/save", req.Path)
	require.JSONEq(t, `{"title":"New"}`, req.Body)
}

func TestCreate_WrappedRecord(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "saved",
			"todo":    map[string]any{"_id": "n2", "title": "Wrapped"},
		})
	})

	task, err := c.Create(context.Background(), "Wrapped")
	require.NoError(t, err)
	require.Equal(t, "n2", task.ID)
}

func TestMutations_PathsAndBodies(t *testing.T) {
	c, api := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, "id/1"))
	req := api.last()
	require.Equal(t, http.MethodDelete, req.Method)
	require.Equal(t, "/api/todo/delete/id%2F1", req.Path)

	require.NoError(t, c.DeleteAll(ctx))
	req = api.last()
	require.Equal(t, http.MethodDelete, req.Method)
	require.Equal(t, "/api/todo/delete-all", req.Path)

	require.NoError(t, c.SetCompleted(ctx, "x9", true))
	req = api.last()
	require.Equal(t, http.MethodPut, req.Method)
	require.Equal(t, "/api/todo/update/x9", req.Path)
	require.JSONEq(t, `{"isCompleted":true}`, req.Body)

	require.NoError(t, c.UpdateTitle(ctx, "x9", "Renamed"))
	req = api.last()
	require.Equal(t, http.MethodPut, req.Method)
	require.JSONEq(t, `{"title":"Renamed"}`, req.Body)
}

func TestErrors_ServerMessage(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Todo already exists"})
	})

	_, err := c.Create(context.Background(), "dup")
	re, ok := gateway.AsRemote(err)
	require.True(t, ok)
	require.Equal(t, gateway.OpCreate, re.Op)
	require.Equal(t, http.StatusBadRequest, re.Status)
	require.Equal(t, "Todo already exists", re.UserMessage())
}

func TestErrors_FallbackWithoutMessage(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>oops</html>")
	})

	_, err := c.List(context.Background())
	re, ok := gateway.AsRemote(err)
	require.True(t, ok)
	require.Equal(t, "", re.Message)
	require.Equal(t, gateway.MsgFetchFailed, re.UserMessage())

	err = c.SetCompleted(context.Background(), "1", true)
	re, ok = gateway.AsRemote(err)
	require.True(t, ok)
	require.Equal(t, gateway.MsgStatusFailed, re.UserMessage())
}

func TestErrors_Unauthorized(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid token"})
	})

	err := c.DeleteAll(context.Background())
	re, ok := gateway.AsRemote(err)
	require.True(t, ok)
	require.True(t, re.Unauthorized())
}

func TestErrors_InvalidJSON(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "not json")
	})

	_, err := c.List(context.Background())
	re, ok := gateway.AsRemote(err)
	require.True(t, ok)
	require.Contains(t, re.Error(), "invalid response")
}

func TestErrors_Timeout(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{handler: func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}}
	srv := httptest.NewServer(api)
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c, err := rest.NewWithHTTPClient(srv.URL, srv.Client(), 50*time.Millisecond)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	re, ok := gateway.AsRemote(err)
	require.True(t, ok)
	require.ErrorIs(t, re, rest.ErrTimeout)
	require.Equal(t, gateway.MsgFetchFailed, re.UserMessage())
}

func TestNew_RequiresTokenSource(t *testing.T) {
	_, err := rest.New(context.Background(), "http://localhost:5000", nil, time.Second)
	require.ErrorIs(t, err, session.ErrAuthRequired)
}

func TestRequest_MissingSession(t *testing.T) {
	api := &fakeAPI{handler: func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"todos": []any{}})
	}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	c, err := rest.New(context.Background(), srv.URL, store, time.Second)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.ErrorIs(t, err, session.ErrAuthRequired)
	require.Empty(t, api.requests, "no request is sent without a credential")

	require.NoError(t, store.Save(session.Bearer("late")))
	_, err = c.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer late", api.last().Auth)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := rest.NewWithHTTPClient("localhost", http.DefaultClient, time.Second)
	require.Error(t, err)
}
