package storage

import (
	"context"
	"io"
)

// StoredImage identifies a saved upload. Key is backend-local; URL is what
// gets persisted on the user record and handed to clients.
type StoredImage struct {
	Key string
	URL string
}

// ImageStore accepts a single named file, stores it under a destination,
// and exposes a retrievable URL for it.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (StoredImage, error)
	Delete(ctx context.Context, key string) error
}
