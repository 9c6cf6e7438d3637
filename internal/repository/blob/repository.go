package blob

import "context"

// Repository stores opaque JSON blobs under namespaced keys. Cart and ledger
// state are written whole after every mutation and rehydrated on first touch.
type Repository interface {
	// Load returns the blob stored under key, or domain.ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save overwrites the blob stored under key.
	Save(ctx context.Context, key string, data []byte) error
}
