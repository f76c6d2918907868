package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestRedis connects to a local Redis on DB 15, skipping when absent.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewManager(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	manager := NewManager(client)
	if manager == nil {
		t.Fatal("NewManager returned nil")
	}
	if manager.redis != client {
		t.Error("Manager redis client not set correctly")
	}
}

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil redis client")
		}
	}()
	NewManager(nil)
}

func testManagerRoundTrip(t *testing.T, manager *Manager) {
	t.Helper()
	ctx := context.Background()

	key := CacheKey{
		Endpoint:    "/api/v2/pokemon",
		QueryParams: url.Values{"offset": {"0"}, "limit": {"2"}},
	}

	entry := &CacheEntry{
		Data:         []byte(`{"count":2,"next":null,"results":[]}`),
		ETag:         `"abc123"`,
		Expires:      time.Now().Add(5 * time.Minute),
		LastModified: time.Now().Add(-1 * time.Hour),
		StatusCode:   200,
		Headers:      http.Header{"Content-Type": []string{"application/json"}},
		CachedAt:     time.Now(),
	}

	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	retrieved, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(retrieved.Data) != string(entry.Data) {
		t.Errorf("Data mismatch: got %s, want %s", retrieved.Data, entry.Data)
	}
	if retrieved.ETag != entry.ETag {
		t.Errorf("ETag mismatch: got %s, want %s", retrieved.ETag, entry.ETag)
	}

	newExpires := time.Now().Add(10 * time.Minute)
	if err := manager.UpdateTTL(ctx, key, newExpires); err != nil {
		t.Fatalf("UpdateTTL failed: %v", err)
	}
	retrieved, err = manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after UpdateTTL failed: %v", err)
	}
	if diff := retrieved.Expires.Sub(newExpires); diff < -time.Second || diff > time.Second {
		t.Errorf("Expires not updated: got %v, want %v", retrieved.Expires, newExpires)
	}

	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after Delete, got %v", err)
	}
}

func TestManager_RoundTrip(t *testing.T) {
	manager := NewManager(setupTestRedis(t))
	testManagerRoundTrip(t, manager)
}

func TestManager_Get_CacheMiss(t *testing.T) {
	manager := NewManager(setupTestRedis(t))

	_, err := manager.Get(context.Background(), CacheKey{Endpoint: "/api/v2/pokemon/0/"})
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestManager_Set_ExpiredEntrySkipped(t *testing.T) {
	manager := NewManager(setupTestRedis(t))
	ctx := context.Background()
	key := CacheKey{Endpoint: "/api/v2/type/"}

	entry := &CacheEntry{
		Data:    []byte(`{}`),
		Expires: time.Now().Add(-1 * time.Hour),
	}
	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for expired entry, got %v", err)
	}
}

func TestManager_Lookup_StaleEntry(t *testing.T) {
	client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()
	key := CacheKey{Endpoint: "/api/v2/pokemon/25/"}

	stale := CacheEntry{
		Data:    []byte(`{"id":25}`),
		ETag:    `"v1"`,
		Expires: time.Now().Add(-time.Minute),
	}
	data, err := json.Marshal(stale)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := client.Set(ctx, key.String(), data, time.Minute).Err(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get of stale entry: expected ErrCacheMiss, got %v", err)
	}

	entry, err := manager.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry.ETag != `"v1"` || !entry.IsExpired() {
		t.Errorf("Lookup returned %+v, want stale entry with ETag", entry)
	}
}

func TestManager_Get_InvalidEntry(t *testing.T) {
	client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()
	key := CacheKey{Endpoint: "/api/v2/generation/"}

	if err := client.Set(ctx, key.String(), "not json", time.Minute).Err(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry, got %v", err)
	}
}

func TestManager_Set_NilEntry(t *testing.T) {
	manager := NewManager(setupTestRedis(t))

	if err := manager.Set(context.Background(), CacheKey{Endpoint: "/x/"}, nil); err == nil {
		t.Error("Set with nil entry should return error")
	}
}

// TestManager_Container runs the round trip against a disposable Redis container.
func TestManager_Container(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Redis container not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { client.Close() })

	manager := NewManager(client)
	if err := manager.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	testManagerRoundTrip(t, manager)
}
