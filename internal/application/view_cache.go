package application

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultViewCacheSize = 64

// viewCache stores computed month views keyed by reference month and today's
// date. The whole cache is dropped on every commit, so entries never outlive
// the document they were computed from.
type viewCache struct {
	maxEntries int
	entries    *lru.Cache[string, MonthView]
}

func newViewCache(maxEntries int) *viewCache {
	if maxEntries <= 0 {
		maxEntries = defaultViewCacheSize
	}
	// lru.New only fails for a non-positive size
	entries, _ := lru.New[string, MonthView](maxEntries)
	return &viewCache{maxEntries: maxEntries, entries: entries}
}

func (c *viewCache) Get(key string) (MonthView, bool) {
	if c == nil {
		return MonthView{}, false
	}
	view, ok := c.entries.Get(key)
	if !ok {
		return MonthView{}, false
	}
	return view.clone(), true
}

func (c *viewCache) Store(key string, view MonthView) {
	if c == nil {
		return
	}
	c.entries.Add(key, view.clone())
}

func (c *viewCache) Invalidate() {
	if c == nil {
		return
	}
	c.entries.Purge()
}

func (c *viewCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
