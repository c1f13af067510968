package memory

import (
	"context"
	"testing"

	"github.com/example/agenda/internal/testfixtures"
)

func TestStore(t *testing.T) {
	t.Parallel()

	testfixtures.ExerciseBlobStore(t, New())
}

func TestStoreCopiesValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	data := []byte("abc")
	if err := store.Save(ctx, "k", data); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data[0] = 'x'

	got, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("expected stored copy to be isolated, got %s", got)
	}
	got[1] = 'y'
	again, _ := store.Load(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("expected loaded copy to be isolated, got %s", again)
	}
}
