package localstore

import (
	"context"
	"testing"
)

// exerciseStore runs the contract every Store implementation must meet.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, KeyWorkflows); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, KeyWorkflows, `[]`); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, ok, err := s.Get(ctx, KeyWorkflows)
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if got != `[]` {
		t.Errorf("got %q, want %q", got, `[]`)
	}

	if err := s.Set(ctx, KeyWorkflows, `[{"id":"x"}]`); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	got, _, _ = s.Get(ctx, KeyWorkflows)
	if got != `[{"id":"x"}]` {
		t.Errorf("overwrite not visible: %q", got)
	}

	if _, ok, _ := s.Get(ctx, KeyOutcomes); ok {
		t.Error("unrelated key should still be absent")
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
	if m.Keys() != 1 {
		t.Errorf("expected 1 key, got %d", m.Keys())
	}
}
