package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TI-Processtec/Analise-de-Cobertura/internal/models"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

// mockBlobStore implements secondary.BlobStore for testing the mirror path.
type mockBlobStore struct {
	blobs       map[string][]byte
	downloadErr error
	uploadErr   error
	uploads     int
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{blobs: make(map[string][]byte)}
}

func (m *mockBlobStore) Download(ctx context.Context, name string) ([]byte, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	data, ok := m.blobs[name]
	if !ok {
		return nil, secondary.ErrBlobNotFound
	}
	return data, nil
}

func (m *mockBlobStore) Upload(ctx context.Context, name string, data []byte) error {
	m.uploads++
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.blobs[name] = data
	return nil
}

var _ secondary.BlobStore = (*mockBlobStore)(nil)

func TestCheckpointFirstRunDefaultsToEpoch(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileCheckpointRepository(dir, nil, nil)

	cp, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cp.LastRun.Equal(models.EpochDay) {
		t.Errorf("first-run checkpoint = %s, want the epoch", cp.LastRun)
	}

	// The default is materialized so the next load hits a real file.
	if _, err := os.Stat(filepath.Join(dir, "metadata.json")); err != nil {
		t.Errorf("checkpoint file not recreated: %v", err)
	}
}

func TestCheckpointSaveLoadRoundTrip(t *testing.T) {
	repo := NewFileCheckpointRepository(t.TempDir(), nil, nil)
	ctx := context.Background()

	want := models.Checkpoint{LastRun: models.NewDay(2024, time.March, 15)}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.LastRun.Equal(want.LastRun) {
		t.Errorf("Load = %s, want %s", got.LastRun, want.LastRun)
	}
}

func TestCheckpointCorruptFileResetsToEpoch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(`{"lastRun":"garbage`), 0644); err != nil {
		t.Fatal(err)
	}
	repo := NewFileCheckpointRepository(dir, nil, nil)

	cp, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed on corrupt file: %v", err)
	}
	if !cp.LastRun.Equal(models.EpochDay) {
		t.Errorf("corrupt checkpoint decoded to %s, want the epoch", cp.LastRun)
	}
}

func TestCheckpointPrefersMirror(t *testing.T) {
	dir := t.TempDir()
	blob := newMockBlobStore()
	blob.blobs["metadata.json"] = []byte(`{"lastRun":"2024-02-20"}`)

	// The local file holds an older date; the mirror wins.
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(`{"lastRun":"2024-01-01"}`), 0644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileCheckpointRepository(dir, blob, nil)
	cp, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cp.LastRun.Equal(models.NewDay(2024, time.February, 20)) {
		t.Errorf("Load = %s, want the mirrored value", cp.LastRun)
	}
}

func TestCheckpointMirrorUnavailableFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	blob := newMockBlobStore()
	blob.downloadErr = errors.New("network down")

	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(`{"lastRun":"2024-01-15"}`), 0644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileCheckpointRepository(dir, blob, nil)
	cp, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed with unreachable mirror: %v", err)
	}
	if !cp.LastRun.Equal(models.NewDay(2024, time.January, 15)) {
		t.Errorf("Load = %s, want the local value", cp.LastRun)
	}
}

func TestCheckpointSaveUploadsToMirror(t *testing.T) {
	blob := newMockBlobStore()
	repo := NewFileCheckpointRepository(t.TempDir(), blob, nil)

	cp := models.Checkpoint{LastRun: models.NewDay(2024, time.March, 15)}
	if err := repo.Save(context.Background(), cp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if blob.uploads != 1 {
		t.Errorf("mirror uploaded %d times, want 1", blob.uploads)
	}

	// A second repository with the same mirror resumes from it.
	other := NewFileCheckpointRepository(t.TempDir(), blob, nil)
	got, err := other.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.LastRun.Equal(cp.LastRun) {
		t.Errorf("Load on fresh machine = %s, want %s", got.LastRun, cp.LastRun)
	}
}

func TestCheckpointSaveUploadFailureIsFatal(t *testing.T) {
	blob := newMockBlobStore()
	blob.uploadErr = errors.New("denied")
	repo := NewFileCheckpointRepository(t.TempDir(), blob, nil)

	err := repo.Save(context.Background(), models.Checkpoint{LastRun: models.NewDay(2024, time.March, 15)})
	if err == nil {
		t.Error("Save succeeded despite a failed mirror upload")
	}
}
