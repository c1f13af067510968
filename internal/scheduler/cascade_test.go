package scheduler

import "testing"

func TestDetachClient(t *testing.T) {
	t.Parallel()

	original := sampleBookings()
	got, changed := DetachClient(original, "c-1")

	if changed != 2 {
		t.Fatalf("expected 2 detached bookings, got %d", changed)
	}
	if len(got) != len(original) {
		t.Fatalf("expected bookings to be kept, got %d", len(got))
	}
	for _, b := range got {
		if b.Client.References("c-1") {
			t.Fatalf("booking %s still references c-1", b.ID)
		}
	}
	if !got[0].Client.IsZero() {
		t.Fatalf("expected b-1 to be unassigned, got %+v", got[0].Client)
	}
	if name, ok := got[1].Client.WalkInName(); !ok || name != "Pedro" {
		t.Fatalf("expected walk-in untouched, got %+v", got[1].Client)
	}
	if !original[0].Client.References("c-1") {
		t.Fatalf("expected input slice untouched")
	}
}

func TestReassignUser(t *testing.T) {
	t.Parallel()

	t.Run("moves bookings to the fallback", func(t *testing.T) {
		t.Parallel()

		got, changed := ReassignUser(sampleBookings(), "u-1", "u-2")
		if changed != 2 {
			t.Fatalf("expected 2 reassigned bookings, got %d", changed)
		}
		for _, b := range got {
			if b.UserID != "u-2" {
				t.Fatalf("booking %s still owned by %s", b.ID, b.UserID)
			}
		}
	})

	t.Run("empty fallback leaves bookings without owner", func(t *testing.T) {
		t.Parallel()

		got, changed := ReassignUser(sampleBookings(), "u-2", "")
		if changed != 2 {
			t.Fatalf("expected 2 reassigned bookings, got %d", changed)
		}
		if got[1].UserID != "" || got[3].UserID != "" {
			t.Fatalf("expected orphaned bookings, got %+v", got)
		}
		if got[0].UserID != "u-1" {
			t.Fatalf("expected unrelated booking untouched")
		}
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	got, removed := Remove(sampleBookings(), "b-2")
	if !removed || len(got) != 3 {
		t.Fatalf("expected b-2 removed, got %v removed=%v", got, removed)
	}
	if _, removed := Remove(got, "missing"); removed {
		t.Fatalf("expected missing id to report false")
	}
}
