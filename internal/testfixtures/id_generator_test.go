package testfixtures

import (
	"sync"
	"testing"
)

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	t.Run("sequence starts at one", func(t *testing.T) {
		t.Parallel()

		next := NewIDGenerator("").NextFunc()
		if first, second := next(), next(); first != "id-1" || second != "id-2" {
			t.Fatalf("unexpected identifiers %q, %q", first, second)
		}
	})

	t.Run("concurrent callers never share an identifier", func(t *testing.T) {
		t.Parallel()

		gen := NewIDGenerator("booking")
		var (
			mu   sync.Mutex
			seen = make(map[string]bool)
			wg   sync.WaitGroup
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					id := gen.Next()
					mu.Lock()
					seen[id] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if len(seen) != 400 {
			t.Fatalf("expected 400 distinct identifiers, got %d", len(seen))
		}
	})
}
