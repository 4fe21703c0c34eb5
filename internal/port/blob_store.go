package port

import "context"

// BlobStore is the persistence adapter behind the cart and the checkout
// session: an opaque serialized value per key, the server-side counterpart
// of the storefront's durable client storage. Get returns nil for an absent
// key; callers own (de)serialization and decide how to treat garbage.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}
