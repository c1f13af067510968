package testfixtures

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/example/agenda/internal/persistence"
)

// ExerciseBlobStore runs the behaviour every persistence.BlobStore must share:
// missing keys report ErrNotFound, saves replace whole values, and deletes are
// idempotent.
func ExerciseBlobStore(t *testing.T, store persistence.BlobStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	first := []byte(`{"version":1}`)
	if err := store.Save(ctx, "doc", first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load(ctx, "doc")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(got, first) {
		t.Fatalf("expected %s, got %s", first, got)
	}

	second := []byte(`{"version":2,"longer":true}`)
	if err := store.Save(ctx, "doc", second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	got, err = store.Load(ctx, "doc")
	if err != nil {
		t.Fatalf("Load after overwrite failed: %v", err)
	}
	if !bytes.Equal(got, second) {
		t.Fatalf("expected overwrite %s, got %s", second, got)
	}

	if err := store.Save(ctx, "other", first); err != nil {
		t.Fatalf("Save other failed: %v", err)
	}
	if err := store.Delete(ctx, "doc"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "doc"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "doc"); err != nil {
		t.Fatalf("expected repeated Delete to succeed, got %v", err)
	}
	if got, err := store.Load(ctx, "other"); err != nil || !bytes.Equal(got, first) {
		t.Fatalf("expected other key untouched, got %s, %v", got, err)
	}

	if err := store.Save(ctx, "", first); !errors.Is(err, persistence.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for empty key, got %v", err)
	}
}
