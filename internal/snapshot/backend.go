package snapshot

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Read when no document has been written for
// a collection yet. Callers treat it as an empty collection.
var ErrNotExist = errors.New("snapshot document does not exist")

// Backend stores one durable text document per entity collection. The
// codec above it never assumes anything about the medium: documents are
// opaque named blobs.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}
