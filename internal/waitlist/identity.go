package waitlist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/kvstore"
)

// Store keys shared by every product's machine.
const (
	GuestIDKey   = "guest_id"
	EmailPrefKey = "preorder_email"
	cacheKeyFmt  = "waitlist:%d"
	cachedJoined = "true"
)

// CacheKey is the store key holding the advisory membership flag for a product.
func CacheKey(productID int) string {
	return fmt.Sprintf(cacheKeyFmt, productID)
}

// Identities owns the persistent guest id and the remembered waitlist email.
type Identities struct {
	store kvstore.Store
	newID func() string
	mu    sync.Mutex
}

// NewIdentities creates identities over store. newID defaults to a random UUID.
func NewIdentities(store kvstore.Store, newID func() string) *Identities {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Identities{store: store, newID: newID}
}

// GuestID returns the stored guest id, creating and storing one on first use.
func (i *Identities) GuestID(ctx context.Context) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	id, ok, err := i.store.Get(ctx, GuestIDKey)
	if err != nil {
		return "", fmt.Errorf("read guest id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = i.newID()
	if err := i.store.Set(ctx, GuestIDKey, id); err != nil {
		return "", fmt.Errorf("store guest id: %w", err)
	}
	return id, nil
}

// Email returns the remembered email preference, or "".
func (i *Identities) Email(ctx context.Context) (string, error) {
	email, _, err := i.store.Get(ctx, EmailPrefKey)
	if err != nil {
		return "", fmt.Errorf("read email preference: %w", err)
	}
	return email, nil
}

// RememberEmail stores the email used for a successful join.
func (i *Identities) RememberEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	return i.store.Set(ctx, EmailPrefKey, email)
}
