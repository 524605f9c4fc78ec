package rostercache

import (
	"context"
	"testing"
	"time"

	"github.com/bunthoeuntok/salarean-sub000/internal/roster"
)

func student(id, ownerID, code string) roster.Student {
	return roster.Student{
		ID:      id,
		OwnerID: ownerID,
		Code:    code,
		Status:  roster.StatusActive,
	}
}

func TestMemoryListRoundTrip(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	if _, ok := c.GetList(ctx, "owner-a"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.SetList(ctx, "owner-a", []roster.Student{student("s1", "owner-a", "S-001")})
	items, ok := c.GetList(ctx, "owner-a")
	if !ok || len(items) != 1 || items[0].ID != "s1" {
		t.Fatalf("unexpected list: ok=%v items=%v", ok, items)
	}

	// The cached snapshot must not alias the caller's slice.
	items[0].Code = "mutated"
	again, _ := c.GetList(ctx, "owner-a")
	if again[0].Code != "S-001" {
		t.Fatalf("cache snapshot aliased: %v", again[0])
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	current := time.Unix(1000, 0)
	c.SetClock(func() time.Time { return current })

	c.SetList(ctx, "owner-a", []roster.Student{student("s1", "owner-a", "S-001")})
	c.SetOne(ctx, "owner-a", student("s1", "owner-a", "S-001"))

	if _, ok := c.GetList(ctx, "owner-a"); !ok {
		t.Fatal("expected hit within TTL")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := c.GetList(ctx, "owner-a"); ok {
		t.Fatal("expected expiry after TTL")
	}
	if _, ok := c.GetOne(ctx, "owner-a", "s1"); ok {
		t.Fatal("expected one-entry expiry after TTL")
	}
}

func TestMemoryOwnerKeysNeverCross(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	c.SetList(ctx, "owner-a", []roster.Student{student("s1", "owner-a", "S-001")})
	c.SetOne(ctx, "owner-a", student("s1", "owner-a", "S-001"))

	if _, ok := c.GetList(ctx, "owner-b"); ok {
		t.Fatal("owner-b reached owner-a's list entry")
	}
	if _, ok := c.GetOne(ctx, "owner-b", "s1"); ok {
		t.Fatal("owner-b reached owner-a's one entry")
	}
}

func TestMemoryInvalidateAllScopedToOwner(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	c.SetList(ctx, "owner-a", []roster.Student{student("s1", "owner-a", "S-001")})
	c.SetOne(ctx, "owner-a", student("s1", "owner-a", "S-001"))
	c.SetList(ctx, "owner-b", []roster.Student{student("s2", "owner-b", "S-001")})

	c.InvalidateAll(ctx, "owner-a")

	if _, ok := c.GetList(ctx, "owner-a"); ok {
		t.Fatal("owner-a list survived InvalidateAll")
	}
	if _, ok := c.GetOne(ctx, "owner-a", "s1"); ok {
		t.Fatal("owner-a entry survived InvalidateAll")
	}
	if _, ok := c.GetList(ctx, "owner-b"); !ok {
		t.Fatal("owner-b entry was collateral damage")
	}

	// Evicting an already-empty scope is a no-op, not an error.
	c.InvalidateAll(ctx, "owner-a")
}

func TestMemoryInvalidateOneAndList(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	c.SetList(ctx, "owner-a", []roster.Student{student("s1", "owner-a", "S-001")})
	c.SetOne(ctx, "owner-a", student("s1", "owner-a", "S-001"))

	c.InvalidateOne(ctx, "owner-a", "s1")
	if _, ok := c.GetOne(ctx, "owner-a", "s1"); ok {
		t.Fatal("one entry survived InvalidateOne")
	}
	if _, ok := c.GetList(ctx, "owner-a"); !ok {
		t.Fatal("list entry must survive InvalidateOne")
	}

	c.InvalidateList(ctx, "owner-a")
	if _, ok := c.GetList(ctx, "owner-a"); ok {
		t.Fatal("list entry survived InvalidateList")
	}
}
