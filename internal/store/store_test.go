package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "franklin.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestGetMissingKey(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.Get(context.Background(), KeyHistory); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.UpdatedAt(context.Background(), KeyHistory); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for UpdatedAt, got %v", err)
	}
}

func TestSetOverwritesWholesale(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, KeyCurrentWeek, `{"id":"a"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, KeyCurrentWeek, `{"id":"b"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := st.Get(ctx, KeyCurrentWeek)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"id":"b"}` {
		t.Fatalf("unexpected value %q", got)
	}
	if _, err := st.UpdatedAt(ctx, KeyCurrentWeek); err != nil {
		t.Fatalf("updated at: %v", err)
	}
}

func TestSlotsAreIndependent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, KeyHistory, "[]"); err != nil {
		t.Fatalf("set history: %v", err)
	}
	if err := st.Set(ctx, KeyCurrentWeek, `{"id":"2026-10-18","focusVirtueId":3,"days":{}}`); err != nil {
		t.Fatalf("set week: %v", err)
	}
	if got, err := st.Get(ctx, KeyHistory); err != nil || got != "[]" {
		t.Fatalf("history slot disturbed: %q, %v", got, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "franklin.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Set(context.Background(), KeyHistory, `[{"id":"2026-10-11"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	got, err := st.Get(context.Background(), KeyHistory)
	if err != nil || got != `[{"id":"2026-10-11"}]` {
		t.Fatalf("unexpected value after reopen: %q, %v", got, err)
	}
}
