package genanswer

import (
	"strings"
	"sync"
	"time"
	"unicode"
)

// Clock supplies the current time. Injected so tests can advance it.
type Clock func() time.Time

type cacheEntry struct {
	answer   string
	storedAt time.Time
}

// Cache is a TTL cache of generated answers keyed by normalized question
// text. It is passed into the Service explicitly; there is no package
// level cache. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]cacheEntry
}

// NewCache creates a cache. A nil clock uses time.Now; a non-positive
// ttl means entries never expire.
func NewCache(ttl time.Duration, now Clock) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached answer for a question, expiring it if stale.
func (c *Cache) Get(question string) (string, bool) {
	key := normalizeQuestion(question)
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return e.answer, true
}

// Put stores an answer for a question.
func (c *Cache) Put(question, answer string) {
	key := normalizeQuestion(question)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{answer: answer, storedAt: c.now()}
}

// Len returns the number of live entries, counting expired ones out.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, e := range c.entries {
		if c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl {
			delete(c.entries, key)
			continue
		}
		n++
	}
	return n
}

// normalizeQuestion folds case, strips punctuation and collapses spaces
// so trivially rephrased questions share a cache slot.
func normalizeQuestion(q string) string {
	out := make([]rune, 0, len(q))
	space := false
	for _, r := range q {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r):
			// skip
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(string(out))
}
