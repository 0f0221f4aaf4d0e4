package webcache

import "context"

// Store is the cache behind web fetches and hosted-extractor runs. Keys are
// caller-chosen strings (URLs, extractor ids); values are opaque JSON blobs.
type Store interface {
	// Get returns the cached payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores the payload, replacing any previous value for the key.
	Put(ctx context.Context, key string, payload []byte) error
}
