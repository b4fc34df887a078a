package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ambava-store/internal/models"
)

func TestMemoryStoreExpiresEntries(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	if err := store.Set(ctx, "otp:+919876543210", "123456", 5*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if value, found, _ := store.Get(ctx, "otp:+919876543210"); !found || value != "123456" {
		t.Fatalf("expected stored value, got found=%v value=%s", found, value)
	}

	now = now.Add(5 * time.Minute)
	if _, found, _ := store.Get(ctx, "otp:+919876543210"); found {
		t.Fatalf("expected entry to expire")
	}
}

func TestMemoryStoreSetNX(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	ok, err := store.SetNX(ctx, "otp_rate:+919876543210", "1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first setnx should succeed: ok=%v err=%v", ok, err)
	}
	ok, _ = store.SetNX(ctx, "otp_rate:+919876543210", "1", time.Minute)
	if ok {
		t.Fatalf("second setnx inside window should fail")
	}
	now = now.Add(61 * time.Second)
	ok, _ = store.SetNX(ctx, "otp_rate:+919876543210", "1", time.Minute)
	if !ok {
		t.Fatalf("setnx after window should succeed")
	}
}

func TestMemoryStoreIncrWindow(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, ttl, err := store.Incr(ctx, "login:priya", 15*time.Minute)
		if err != nil {
			t.Fatalf("incr failed: %v", err)
		}
		if count != int64(i) {
			t.Fatalf("unexpected count: got=%d want=%d", count, i)
		}
		if ttl != 15*time.Minute {
			t.Fatalf("unexpected ttl: %v", ttl)
		}
	}

	now = now.Add(15 * time.Minute)
	count, _, _ := store.Incr(ctx, "login:priya", 15*time.Minute)
	if count != 1 {
		t.Fatalf("counter should reset after window, got=%d", count)
	}
}

func TestUserAuthStateRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := &models.User{ID: 7, Status: "active", TokenVersion: 3}

	if err := SetUserAuthState(ctx, store, BuildUserAuthState(user)); err != nil {
		t.Fatalf("set auth state failed: %v", err)
	}
	state, hit, err := GetUserAuthState(ctx, store, 7)
	if err != nil || !hit {
		t.Fatalf("expected cache hit, hit=%v err=%v", hit, err)
	}
	if state.TokenVersion != 3 || state.Status != "active" {
		t.Fatalf("unexpected state: %+v", state)
	}
	if err := DelUserAuthState(ctx, store, 7); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, hit, _ := GetUserAuthState(ctx, store, 7); hit {
		t.Fatalf("expected cache miss after delete")
	}
}
