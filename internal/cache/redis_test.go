package cache

import (
	"testing"

	"github.com/diewo77/hotel-backoffice/internal/config"
)

func TestNewDisabled(t *testing.T) {
	if c := New(config.CacheConfig{Enabled: false}, nil); c != nil {
		t.Fatalf("expected nil cache when disabled, got %T", c)
	}
	if c := New(config.CacheConfig{Enabled: true}, nil); c != nil {
		t.Fatalf("expected nil cache without a client, got %T", c)
	}
	if rdb := NewRedisClient(config.RedisConfig{}); rdb != nil {
		t.Fatal("expected no client without an address")
	}
}

func TestKeys(t *testing.T) {
	if got := genKey("hotel"); got != "hotel:rooms:gen" {
		t.Fatalf("gen key %q", got)
	}
	a := entryKey("hotel", 3, "available:2026-03-10:2026-03-12")
	b := entryKey("hotel", 4, "available:2026-03-10:2026-03-12")
	if a != "hotel:rooms:3:available:2026-03-10:2026-03-12" || a == b {
		t.Fatalf("unexpected entry keys %q %q", a, b)
	}
}
