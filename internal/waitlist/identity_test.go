package waitlist_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/kvstore"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/waitlist"
)

func TestIdentities_GuestIDCreatedOnce(t *testing.T) {
	store := kvstore.NewMemory(nil)
	ids := waitlist.NewIdentities(store, nil)
	ctx := context.Background()

	first, err := ids.GuestID(ctx)
	if err != nil {
		t.Fatalf("GuestID failed: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("expected a UUID, got %q", first)
	}

	second, _ := ids.GuestID(ctx)
	if first != second {
		t.Errorf("expected guest id reused, got %q then %q", first, second)
	}

	// A fresh Identities over the same store sees the same id.
	again, _ := waitlist.NewIdentities(store, nil).GuestID(ctx)
	if again != first {
		t.Errorf("expected persisted guest id, got %q", again)
	}
}

func TestIdentities_Email(t *testing.T) {
	store := kvstore.NewMemory(nil)
	ids := waitlist.NewIdentities(store, nil)
	ctx := context.Background()

	if email, err := ids.Email(ctx); err != nil || email != "" {
		t.Fatalf("expected no email, got %q err=%v", email, err)
	}

	if err := ids.RememberEmail(ctx, "  b@example.com "); err != nil {
		t.Fatalf("RememberEmail failed: %v", err)
	}
	if email, _ := ids.Email(ctx); email != "b@example.com" {
		t.Errorf("expected trimmed email, got %q", email)
	}

	if err := ids.RememberEmail(ctx, ""); err != nil {
		t.Fatalf("RememberEmail empty failed: %v", err)
	}
	if email, _ := ids.Email(ctx); email != "b@example.com" {
		t.Errorf("expected empty email to be ignored, got %q", email)
	}
}

func TestCacheKey(t *testing.T) {
	if waitlist.CacheKey(42) != "waitlist:42" {
		t.Errorf("unexpected key %q", waitlist.CacheKey(42))
	}
}
