package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)
	v, ok := c.Get("k")
	if !ok || v != "v" {
		t.Fatalf("Get = (%v, %v), want (v, true)", v, ok)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New()
	if _, ok := c.Get("missing"); ok {
		t.Error("want miss for unset key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("want miss after TTL expiry")
	}
}

func TestCache_ZeroTTLDoesNotCache(t *testing.T) {
	c := New()
	c.Set("k", "v", 0)
	if _, ok := c.Get("k"); ok {
		t.Error("ttl<=0 should not cache")
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Error("want miss after Invalidate")
	}
}
