package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// metadataBlobName is the object name of the checkpoint in the remote mirror.
const metadataBlobName = "metadata.json"

// FileCheckpointRepository implements secondary.CheckpointRepository with a
// local metadata.json plus an optional remote blob mirror. Load prefers the
// mirror so a fresh machine resumes where the previous one stopped; a
// missing or corrupt local file falls back to the epoch default and is
// recreated.
type FileCheckpointRepository struct {
	path   string
	blob   secondary.BlobStore // nil disables the mirror
	logger *log.Logger
}

// NewFileCheckpointRepository creates a checkpoint repository at dir. blob
// may be nil to run without a remote mirror.
func NewFileCheckpointRepository(dir string, blob secondary.BlobStore, logger *log.Logger) *FileCheckpointRepository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &FileCheckpointRepository{
		path:   filepath.Join(dir, metadataBlobName),
		blob:   blob,
		logger: logger,
	}
}

// Load returns the stored checkpoint, defaulting to the epoch on the first
// run or after corruption.
func (r *FileCheckpointRepository) Load(ctx context.Context) (models.Checkpoint, error) {
	if r.blob != nil {
		data, err := r.blob.Download(ctx, metadataBlobName)
		switch {
		case err == nil:
			if werr := r.writeLocal(data); werr != nil {
				return models.Checkpoint{}, werr
			}
			r.logger.Printf("checkpoint downloaded from mirror")
		case errors.Is(err, secondary.ErrBlobNotFound):
			r.logger.Printf("no checkpoint in mirror yet, using local state")
		default:
			// The mirror being unreachable must not block a run; the
			// local file still bounds the window.
			r.logger.Printf("WARN checkpoint mirror unavailable: %v", err)
		}
	}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return r.reset()
	}
	if err != nil {
		return models.Checkpoint{}, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp models.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil || cp.LastRun.IsZero() {
		r.logger.Printf("WARN checkpoint file is corrupt, resetting to epoch")
		return r.reset()
	}
	return cp, nil
}

// Save writes the checkpoint locally and pushes it to the mirror.
func (r *FileCheckpointRepository) Save(ctx context.Context, cp models.Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := r.writeLocal(data); err != nil {
		return err
	}
	if r.blob != nil {
		if err := r.blob.Upload(ctx, metadataBlobName, data); err != nil {
			return fmt.Errorf("failed to upload checkpoint: %w", err)
		}
		r.logger.Printf("checkpoint uploaded to mirror")
	}
	return nil
}

// reset recreates the checkpoint file with the epoch default.
func (r *FileCheckpointRepository) reset() (models.Checkpoint, error) {
	cp := models.DefaultCheckpoint()
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return models.Checkpoint{}, fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := r.writeLocal(data); err != nil {
		return models.Checkpoint{}, err
	}
	return cp, nil
}

func (r *FileCheckpointRepository) writeLocal(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint dir: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// Ensure FileCheckpointRepository implements the interface.
var _ secondary.CheckpointRepository = (*FileCheckpointRepository)(nil)
