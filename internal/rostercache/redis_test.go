package rostercache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bunthoeuntok/salarean-sub000/internal/roster"
)

// deadRedis returns a cache whose backend cannot be reached. Port 1 is never
// listening; short timeouts and no retries keep the tests fast.
func deadRedis(t *testing.T) *Redis {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
		MaxRetries:   -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, time.Minute)
}

func TestRedisUnreachableBackendReadsAreMisses(t *testing.T) {
	c := deadRedis(t)
	ctx := context.Background()

	if _, ok := c.GetList(ctx, "owner-a"); ok {
		t.Fatal("dead backend must report a list miss")
	}
	if _, ok := c.GetOne(ctx, "owner-a", "s1"); ok {
		t.Fatal("dead backend must report a one-entry miss")
	}
}

func TestRedisUnreachableBackendAbsorbsWritesAndEvictions(t *testing.T) {
	c := deadRedis(t)
	ctx := context.Background()

	// None of these may panic or surface an error; the caller falls through
	// to the store on the next read.
	c.SetList(ctx, "owner-a", []roster.Student{student("s1", "owner-a", "S-001")})
	c.SetOne(ctx, "owner-a", student("s1", "owner-a", "S-001"))
	c.InvalidateOne(ctx, "owner-a", "s1")
	c.InvalidateList(ctx, "owner-a")
	c.InvalidateAll(ctx, "owner-a")

	if _, ok := c.GetList(ctx, "owner-a"); ok {
		t.Fatal("write against dead backend must not fake a hit")
	}
}

func TestRedisKeysEmbedOwner(t *testing.T) {
	if listKey("owner-a") != "roster:owner-a:all" {
		t.Fatalf("unexpected list key: %s", listKey("owner-a"))
	}
	if oneKey("owner-a", "s1") != "roster:owner-a:one:s1" {
		t.Fatalf("unexpected one key: %s", oneKey("owner-a", "s1"))
	}
	if indexKey("owner-a") != "roster:owner-a:keys" {
		t.Fatalf("unexpected index key: %s", indexKey("owner-a"))
	}
	if listKey("owner-a") == listKey("owner-b") || oneKey("owner-a", "s1") == oneKey("owner-b", "s1") {
		t.Fatal("keys for different owners must differ")
	}
}
