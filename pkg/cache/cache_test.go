package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New[string](time.Second, 0)
	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Fatalf("expected value1, got %v, exists=%v", val, ok)
	}
}

func TestExpiration(t *testing.T) {
	c := New[string](100*time.Millisecond, 0)
	c.Set("key1", "value1")
	time.Sleep(150 * time.Millisecond)
	_, ok := c.Get("key1")
	if ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestDelete(t *testing.T) {
	c := New[string](time.Second, 0)
	c.Set("key1", "value1")
	c.Delete("key1")
	_, ok := c.Get("key1")
	if ok {
		t.Fatalf("expected deleted key to return false")
	}
}

func TestInvalidate(t *testing.T) {
	c := New[int](time.Second, 0)
	c.Set("dashboard:summary", 1)
	c.Set("dashboard:expiring:30", 2)
	c.Set("contracts:active", 3)
	c.Invalidate("dashboard:")
	_, ok1 := c.Get("dashboard:summary")
	_, ok2 := c.Get("dashboard:expiring:30")
	_, ok3 := c.Get("contracts:active")
	if ok1 || ok2 {
		t.Fatalf("expected dashboard keys to be invalidated")
	}
	if !ok3 {
		t.Fatalf("expected contracts:active to still exist")
	}
}

func TestClear(t *testing.T) {
	c := New[int](time.Second, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", c.Len())
	}
}
