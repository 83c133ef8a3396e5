package repository

import "context"

// IStorage is the persisted key-value boundary behind every component.
// Values are opaque strings (JSON documents). The store may be cleared
// externally at any time; components must treat an empty store as a cold
// start rather than an error.
type IStorage interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores or overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// KeysWithPrefix enumerates all keys starting with prefix.
	KeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}
