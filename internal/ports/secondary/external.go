package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrBlobNotFound reports that the remote mirror holds no such blob yet.
// Checkpoint loading treats it as "first run", not a failure.
var ErrBlobNotFound = errors.New("blob not found")

// Credentials is the slice of the secret payload the collector depends on.
// Any refresh-workflow fields in the secret belong to the excluded token
// refresh job and are ignored here.
type Credentials struct {
	AccessToken string
	APIBaseURL  string
}

// SecretStore defines the secondary port for credential retrieval.
type SecretStore interface {
	// Get fetches and parses the secret payload. Failure here is fatal at
	// startup; no collection proceeds without credentials.
	Get(ctx context.Context, secretName string) (*Credentials, error)
}

// TabularStore defines the secondary port for the tracked-SKU spreadsheet.
// Row 0 of a range is the header; row i+1 corresponds to tracked SKU i.
type TabularStore interface {
	// GetRange reads rows from a sheet range.
	GetRange(ctx context.Context, sheetID, rng string) ([][]string, error)

	// UpdateRange overwrites a sheet range with the given rows.
	UpdateRange(ctx context.Context, sheetID, rng string, rows [][]string) error
}

// BlobStore defines the secondary port for the remote checkpoint mirror.
type BlobStore interface {
	// Download returns the blob contents, or ErrBlobNotFound.
	Download(ctx context.Context, name string) ([]byte, error)

	// Upload overwrites the blob with the given contents.
	Upload(ctx context.Context, name string, data []byte) error
}

// Clock abstracts "now" so the rate governor's spacing, daily reset and the
// collection window end are deterministic under test.
type Clock interface {
	Now() time.Time
}
