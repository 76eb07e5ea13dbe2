package cache

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Close()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get() on empty cache returned a value")
	}

	c.Set(ctx, "a", 1, 0)
	got, ok := c.Get(ctx, "a")
	if !ok || got != 1 {
		t.Errorf("Get(a) = (%d, %v), want (1, true)", got, ok)
	}

	c.Set(ctx, "a", 2, 0)
	if got, _ := c.Get(ctx, "a"); got != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "short", 1, 10*time.Millisecond)
	if _, ok := c.Get(ctx, "short"); !ok {
		t.Fatal("entry expired immediately")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "short"); ok {
		t.Error("entry readable after its TTL")
	}
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	c := New[string, int](0)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "forever", 1, 0)
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get(ctx, "forever"); !ok {
		t.Error("entry with no TTL expired")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "a", 1, 0)
	c.Delete(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("deleted entry still readable")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int, int](time.Minute)
	defer c.Close()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			c.Set(ctx, i%10, i, 0)
		}
	}()
	for i := 0; i < 1000; i++ {
		c.Get(ctx, i%10)
	}
	<-done
}
