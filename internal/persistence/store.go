package persistence

import "context"

// DefaultKey is the key under which the agenda document is stored.
const DefaultKey = "app_agenda_v2"

// BlobStore persists opaque serialized documents by key. Implementations
// replace the whole value on Save; there are no partial writes.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
