package cache

import (
	"testing"
	"time"
)

func TestCacheEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"expired entry", time.Now().Add(-1 * time.Hour), true},
		{"valid entry", time.Now().Add(1 * time.Hour), false},
		{"just expired", time.Now().Add(-1 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{Expires: tt.expires}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheEntry_TTL(t *testing.T) {
	expired := &CacheEntry{Expires: time.Now().Add(-time.Minute)}
	if ttl := expired.TTL(); ttl != 0 {
		t.Errorf("TTL() of expired entry = %v, want 0", ttl)
	}

	fresh := &CacheEntry{Expires: time.Now().Add(10 * time.Minute)}
	if ttl := fresh.TTL(); ttl < 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("TTL() = %v, want ~10m", ttl)
	}
}

func TestCacheEntry_Age(t *testing.T) {
	entry := &CacheEntry{CachedAt: time.Now().Add(-30 * time.Second)}
	if age := entry.Age(); age < 30*time.Second || age > 31*time.Second {
		t.Errorf("Age() = %v, want ~30s", age)
	}
}
