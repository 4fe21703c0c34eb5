package storage

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisRoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "cart:test-user")

	// Test
	if err := adapter.Set(ctx, "cart:test-user", []byte(`[{"quantity":1}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := adapter.Get(ctx, "cart:test-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, []byte(`[{"quantity":1}]`)) {
		t.Errorf("unexpected data: %s", data)
	}

	// Verify the key carries a TTL.
	ttl, _ := client.TTL(ctx, "cart:test-user").Result()
	if ttl <= 0 {
		t.Errorf("expected a positive TTL, got %v", ttl)
	}
}

func TestRedisGet_MissingKey(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, "cart:nonexistent")

	data, err := adapter.Get(ctx, "cart:nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil for missing key, got %s", data)
	}
}

func TestRedisClear(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	adapter.Set(ctx, "cart:clear-me", []byte("x"))

	if err := adapter.Clear(ctx, "cart:clear-me"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := adapter.Get(ctx, "cart:clear-me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("expected key to be gone, got %s", data)
	}
}
