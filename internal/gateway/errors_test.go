package gateway_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"todo/internal/gateway"
)

func TestRemoteError_UserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *gateway.RemoteError
		want string
	}{
		{"server text wins", &gateway.RemoteError{Op: gateway.OpList, Status: 500, Message: "db down"}, "db down"},
		{"list fallback", &gateway.RemoteError{Op: gateway.OpList, Status: 500}, gateway.MsgFetchFailed},
		{"status fallback", &gateway.RemoteError{Op: gateway.OpSetCompleted}, gateway.MsgStatusFailed},
		{"delete fallback", &gateway.RemoteError{Op: gateway.OpDelete, Status: 502}, gateway.MsgGeneric},
		{"create fallback", &gateway.RemoteError{Op: gateway.OpCreate, Err: errors.New("reset")}, gateway.MsgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.UserMessage(); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoteError_Error(t *testing.T) {
	tests := []struct {
		err  *gateway.RemoteError
		want string
	}{
		{&gateway.RemoteError{Op: gateway.OpCreate, Status: 400, Message: "Todo already exists"}, "create: 400: Todo already exists"},
		{&gateway.RemoteError{Op: gateway.OpDelete, Status: 404}, "delete: 404 Not Found"},
		{&gateway.RemoteError{Op: gateway.OpList, Err: errors.New("connection refused")}, "list: connection refused"},
		{&gateway.RemoteError{Op: gateway.OpDeleteAll}, "delete-all: failed"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestAsRemote_Wrapped(t *testing.T) {
	base := &gateway.RemoteError{Op: gateway.OpList, Status: http.StatusForbidden}
	re, ok := gateway.AsRemote(fmt.Errorf("load: %w", base))
	if !ok || re != base {
		t.Fatalf("AsRemote did not find wrapped error")
	}
	if !re.Unauthorized() {
		t.Error("403 should count as unauthorized")
	}
	if _, ok := gateway.AsRemote(errors.New("plain")); ok {
		t.Error("plain error should not be remote")
	}
}

type updater struct{ gateway.Gateway }

func (updater) UpdateTitle(context.Context, string, string) error { return nil }

func TestBasic_HidesTitleUpdater(t *testing.T) {
	var gw gateway.Gateway = updater{}
	if _, ok := gw.(gateway.TitleUpdater); !ok {
		t.Fatal("test gateway should implement TitleUpdater")
	}
	b := gateway.Basic(gw)
	if _, ok := b.(gateway.TitleUpdater); ok {
		t.Error("Basic should hide TitleUpdater")
	}
	if gateway.Basic(b) != b {
		t.Error("Basic should not wrap twice")
	}
}
