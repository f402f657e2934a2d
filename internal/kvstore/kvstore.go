// Package kvstore holds small client-side state (guest identity, waitlist
// cache, email preference) behind a get/set/remove interface.
package kvstore

import "context"

// Store is a string key/value store. Get reports a missing key with ok=false
// and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
