package model

import (
	"context"
	"io"
)

// ObjectStorage keeps opaque objects, such as ciphertext-only account snapshots.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
