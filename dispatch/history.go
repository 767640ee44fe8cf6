package dispatch

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// History is a bounded log of recent dispatch outcomes, keyed by request id
type History struct {
	cache *lru.Cache[string, Result]
}

// NewHistory keeps at most size entries, evicting the oldest first
func NewHistory(size int) (*History, error) {
	cache, err := lru.New[string, Result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch history: %w", err)
	}
	return &History{cache: cache}, nil
}

func (h *History) Add(r Result) {
	h.cache.Add(r.ID, r)
}

// Recent returns up to limit entries, newest first. A limit of zero or
// less returns every entry.
func (h *History) Recent(limit int) []Result {
	keys := h.cache.Keys()
	if limit <= 0 || limit > len(keys) {
		limit = len(keys)
	}

	results := make([]Result, 0, limit)
	for i := len(keys) - 1; i >= 0 && len(results) < limit; i-- {
		if r, ok := h.cache.Peek(keys[i]); ok {
			results = append(results, r)
		}
	}
	return results
}

func (h *History) Len() int {
	return h.cache.Len()
}
