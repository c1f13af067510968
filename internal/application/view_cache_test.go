package application

import "testing"

func TestViewCacheEvictsWhenFull(t *testing.T) {
	t.Parallel()

	cache := newViewCache(2)
	cache.Store("a", MonthView{Selected: "a"})
	cache.Store("b", MonthView{Selected: "b"})
	cache.Store("b", MonthView{Selected: "b2"})
	if cache.Len() != 2 {
		t.Fatalf("expected overwrite not to evict, got %d entries", cache.Len())
	}

	cache.Store("c", MonthView{Selected: "c"})
	if cache.Len() != 2 {
		t.Fatalf("expected cache to stay bounded, got %d entries", cache.Len())
	}
	if view, ok := cache.Get("c"); !ok || view.Selected != "c" {
		t.Fatalf("expected newest entry to be present")
	}
	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected least recently used entry to be evicted")
	}

	cache.Invalidate()
	if _, ok := cache.Get("c"); ok || cache.Len() != 0 {
		t.Fatalf("expected empty cache after invalidate")
	}
}

func TestViewCacheReturnsCopies(t *testing.T) {
	t.Parallel()

	cache := newViewCache(4)
	cache.Store("m", MonthView{Cells: []MonthCell{{Count: 1}}})

	first, _ := cache.Get("m")
	first.Cells[0].Count = 99

	second, _ := cache.Get("m")
	if second.Cells[0].Count != 1 {
		t.Fatalf("expected cached view to be isolated from callers, got %d", second.Cells[0].Count)
	}
}

func TestViewCacheNilSafe(t *testing.T) {
	t.Parallel()

	var cache *viewCache
	cache.Store("a", MonthView{})
	cache.Invalidate()
	if _, ok := cache.Get("a"); ok || cache.Len() != 0 {
		t.Fatalf("expected nil cache to behave as empty")
	}
	if newViewCache(0).maxEntries != defaultViewCacheSize {
		t.Fatalf("expected default size for non-positive bound")
	}
}
