// Package kv persists the client's logical storage keys (the collection,
// the active-list pointer, migration markers) in a local SQLite database.
package kv

import "context"

// Repository is a durable string key/value store.
type Repository interface {
	// Get returns the value for key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
