package google

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// BlobStore implements secondary.BlobStore against a Cloud Storage bucket,
// used as the remote checkpoint mirror.
type BlobStore struct {
	client *storage.Client
	bucket string
}

// NewBlobStore creates a Cloud Storage client scoped to one bucket.
func NewBlobStore(ctx context.Context, bucket string) (*BlobStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &BlobStore{client: client, bucket: bucket}, nil
}

// Download returns the object contents, mapping a missing object to
// secondary.ErrBlobNotFound.
func (b *BlobStore) Download(ctx context.Context, name string) ([]byte, error) {
	r, err := b.client.Bucket(b.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, secondary.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s/%s: %w", b.bucket, name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", b.bucket, name, err)
	}
	return data, nil
}

// Upload overwrites the object with the given contents.
func (b *BlobStore) Upload(ctx context.Context, name string, data []byte) error {
	w := b.client.Bucket(b.bucket).Object(name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s/%s: %w", b.bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish upload %s/%s: %w", b.bucket, name, err)
	}
	return nil
}

// Close releases the underlying client.
func (b *BlobStore) Close() error {
	return b.client.Close()
}

// Ensure BlobStore implements the interface.
var _ secondary.BlobStore = (*BlobStore)(nil)
