package genanswer

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCachePutGet(t *testing.T) {
	clk := newFakeClock()
	c := NewCache(time.Hour, clk.now)

	if _, ok := c.Get("What is osmosis?"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Put("What is osmosis?", "Movement of water across a membrane.")
	got, ok := c.Get("What is osmosis?")
	if !ok || got != "Movement of water across a membrane." {
		t.Fatalf("Get = %q, %v", got, ok)
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	c := NewCache(time.Hour, newFakeClock().now)
	c.Put("What is Osmosis?", "answer")

	variants := []string{
		"what is osmosis",
		"  WHAT   IS  OSMOSIS?? ",
		"What is osmosis.",
	}
	for _, q := range variants {
		if _, ok := c.Get(q); !ok {
			t.Errorf("variant %q should hit the cache", q)
		}
	}

	if _, ok := c.Get("what is diffusion"); ok {
		t.Error("different question must not hit")
	}
}

func TestCacheExpiry(t *testing.T) {
	clk := newFakeClock()
	c := NewCache(30*time.Minute, clk.now)
	c.Put("q", "a")

	clk.advance(29 * time.Minute)
	if _, ok := c.Get("q"); !ok {
		t.Fatal("entry should still be live just before the TTL")
	}

	clk.advance(time.Minute)
	if _, ok := c.Get("q"); ok {
		t.Fatal("entry should expire at the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after expiry, want 0", c.Len())
	}
}

func TestCacheNoTTL(t *testing.T) {
	clk := newFakeClock()
	c := NewCache(0, clk.now)
	c.Put("q", "a")

	clk.advance(1000 * time.Hour)
	if _, ok := c.Get("q"); !ok {
		t.Error("zero TTL means entries never expire")
	}
}

func TestCacheOverwrite(t *testing.T) {
	clk := newFakeClock()
	c := NewCache(time.Hour, clk.now)
	c.Put("q", "first")

	clk.advance(50 * time.Minute)
	c.Put("q", "second")

	// The rewrite refreshed the entry's clock.
	clk.advance(30 * time.Minute)
	got, ok := c.Get("q")
	if !ok || got != "second" {
		t.Errorf("Get = %q, %v; want refreshed second answer", got, ok)
	}
}
