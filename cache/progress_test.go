package cache

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetProgress(ctx, "job-1", 42); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	percent, ok, err := store.GetProgress(ctx, "job-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("Expected job-1 to be known")
	}
	if percent != 42 {
		t.Errorf("Expected 42, got %d", percent)
	}
}

func TestMemoryStoreUnknownJob(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.GetProgress(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Error("Expected missing job to be unknown")
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.SetProgress(ctx, "job-1", 10)
	_ = store.SetProgress(ctx, "job-1", 90)

	percent, ok, _ := store.GetProgress(ctx, "job-1")
	if !ok || percent != 90 {
		t.Errorf("Expected latest value 90, got %d (known=%v)", percent, ok)
	}
}
