// Package docstore provides key/value persistence for uploaded source
// documents, keyed per session so a document can outlive a process restart
// even though conversation history does not.
package docstore

import "context"

// Store is a minimal key/value contract. Get on an absent key returns
// ErrNotFound; Delete on an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
