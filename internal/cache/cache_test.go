package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("Get() on empty cache returned a value")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get() = %q, %v", got, ok)
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("k", 42)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expired entry still served")
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d after lazy expiry", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c := New[int](3, time.Minute)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	// Touch k0 so k1 becomes least recently used.
	c.Get("k0")
	c.Set("k3", 3)

	if _, ok := c.Get("k1"); ok {
		t.Fatalf("least recently used entry survived eviction")
	}
	for _, key := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("entry %q missing", key)
		}
	}
}

func TestSetUpdatesExisting(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("k", 1)
	c.Set("k", 2)

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if got, _ := c.Get("k"); got != 2 {
		t.Fatalf("Get() = %d, want 2", got)
	}
}

func TestPurge(t *testing.T) {
	c := New[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("Len = %d after Purge", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("purged entry still served")
	}
}

func TestSweep(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if removed := c.Sweep(); removed != 2 {
		t.Fatalf("Sweep() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}
