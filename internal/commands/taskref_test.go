package commands

import (
	"errors"
	"testing"

	"todo/internal/gateway"
	"todo/internal/tasklist"
)

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 5 || ref.ID != "" {
		t.Errorf("unexpected ref: %#v", ref)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"64f1c2a9e4b0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "64f1c2a9e4b0" || ref.Num != 0 {
		t.Errorf("unexpected ref: %#v", ref)
	}
}

func TestParseTaskRef_TrimsSpace(t *testing.T) {
	ref, err := ParseTaskRef([]string{" 3 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 3 {
		t.Errorf("expected Num 3, got %d", ref.Num)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"  "}} {
		_, err := ParseTaskRef(args)
		if err != ErrTaskRefRequired {
			t.Errorf("ParseTaskRef(%q): expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestParseTaskRef_InnerSpace_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"a b"})
	if err == nil {
		t.Fatal("expected error for reference with a space")
	}
	expectedMsg := "invalid task reference: a b"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRef_Overflow_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"99999999999999999999999"})
	if err == nil {
		t.Fatal("expected error for overflowing number")
	}
}

func TestTaskRef_Resolve(t *testing.T) {
	tasks := []gateway.Task{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
	}

	tests := []struct {
		name    string
		ref     TaskRef
		wantID  string
		wantErr string
	}{
		{"first", TaskRef{Num: 1}, "a", ""},
		{"last", TaskRef{Num: 2}, "b", ""},
		{"by id", TaskRef{ID: "b"}, "b", ""},
		{"zero", TaskRef{Num: 0}, "", "task number out of range: 0"},
		{"past end", TaskRef{Num: 3}, "", "task number out of range: 3"},
		{"unknown id", TaskRef{ID: "zzz"}, "", "Todo not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ref.Resolve(tasks)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("expected %q, got %q", tt.wantID, got.ID)
			}
		})
	}
}

func TestTaskRef_ResolveUnknownIsValidation(t *testing.T) {
	_, err := TaskRef{ID: "zzz"}.Resolve(nil)
	if !errors.Is(err, tasklist.ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}
}
