package cache

import (
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRU[string](10, time.Minute)

	c.Set("transactions?page=1", "page one")
	got, ok := c.Get("transactions?page=1")
	if !ok || got != "page one" {
		t.Fatalf("Get = (%q, %v), want (page one, true)", got, ok)
	}

	if _, ok := c.Get("transactions?page=2"); ok {
		t.Fatal("Get on missing key should report absent")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // touch a so b is the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used key should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used key should survive eviction")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should not be returned")
	}
	if c.Size() != 0 {
		t.Errorf("Size() after expired Get = %d, want 0", c.Size())
	}
}

func TestLRUInvalidatePrefix(t *testing.T) {
	c := NewLRU[string](10, time.Minute)

	c.Set("transactions?page=1", "t1")
	c.Set("transactions?page=2", "t2")
	c.Set("categories?page=1", "c1")

	if n := c.InvalidatePrefix("transactions"); n != 2 {
		t.Errorf("InvalidatePrefix removed %d entries, want 2", n)
	}
	if _, ok := c.Get("transactions?page=1"); ok {
		t.Error("invalidated entry still present")
	}
	if _, ok := c.Get("categories?page=1"); !ok {
		t.Error("unrelated entry was removed")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired removed %d entries, want 2", n)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry should survive cleanup")
	}
}
