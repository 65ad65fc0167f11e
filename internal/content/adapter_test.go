package content

import (
	"context"
	"errors"
	"testing"
)

type stubAdapter struct {
	statuses map[string]string
	deleted  []string
	err      error
}

func newStubAdapter() *stubAdapter {
	return &stubAdapter{statuses: make(map[string]string)}
}

func (s *stubAdapter) UpdateStatus(ctx context.Context, contentID string, status string) error {
	if s.err != nil {
		return s.err
	}
	s.statuses[contentID] = status
	return nil
}

func (s *stubAdapter) Delete(ctx context.Context, contentID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, contentID)
	return nil
}

func TestRegistryDispatchesToRegisteredAdapter(t *testing.T) {
	registry := NewRegistry()
	adapter := newStubAdapter()
	registry.Register("post", adapter)

	ctx := context.Background()
	if err := registry.UpdateStatus(ctx, "post", "p1", StatusHidden); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if adapter.statuses["p1"] != StatusHidden {
		t.Fatalf("expected status applied, got %q", adapter.statuses["p1"])
	}

	if err := registry.Delete(ctx, "post", "p1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(adapter.deleted) != 1 {
		t.Fatalf("expected one delete, got %v", adapter.deleted)
	}
}

func TestRegistryUnknownTypeIsNoop(t *testing.T) {
	registry := NewRegistry()

	ctx := context.Background()
	if err := registry.UpdateStatus(ctx, "podcast", "x", StatusHidden); err != nil {
		t.Fatalf("expected unknown type to be skipped, got %v", err)
	}
	if err := registry.Delete(ctx, "podcast", "x"); err != nil {
		t.Fatalf("expected unknown type to be skipped, got %v", err)
	}
}

func TestRegistryPropagatesAdapterErrors(t *testing.T) {
	registry := NewRegistry()
	adapter := newStubAdapter()
	adapter.err = errors.New("row gone")
	registry.Register("post", adapter)

	if err := registry.UpdateStatus(context.Background(), "post", "p1", StatusPublished); err == nil {
		t.Fatal("expected adapter error to propagate")
	}
}

func TestRegistryReplaceAdapter(t *testing.T) {
	registry := NewRegistry()
	first := newStubAdapter()
	second := newStubAdapter()
	registry.Register("post", first)
	registry.Register("post", second)

	if err := registry.UpdateStatus(context.Background(), "post", "p1", StatusPublished); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(first.statuses) != 0 {
		t.Fatal("expected first adapter replaced")
	}
	if second.statuses["p1"] != StatusPublished {
		t.Fatal("expected second adapter to receive the call")
	}
}
