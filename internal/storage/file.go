package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rewired-gh/neurodraw/internal/models"
)

// FileStore keeps snapshots in memory and mirrors them to a JSON file after
// every write.
type FileStore struct {
	snapshots []models.Snapshot // most recent first
	mu        sync.RWMutex

	// Configuration
	maxRecords      int
	filePath        string
	filePermissions os.FileMode
	dirPermissions  os.FileMode
}

// PersistenceFile represents the file structure for JSON persistence
type PersistenceFile struct {
	Version   string            `json:"version"`
	SavedAt   time.Time         `json:"saved_at"`
	Snapshots []models.Snapshot `json:"snapshots"`
}

// NewFileStore creates a FileStore and loads any existing file.
// If filePath is empty, uses OS-appropriate tmp directory
func NewFileStore(maxRecords int, filePath string, filePermissions, dirPermissions os.FileMode) (*FileStore, error) {
	if maxRecords < 1 {
		maxRecords = DefaultMaxRecords
	}
	if filePath == "" {
		filePath = filepath.Join(os.TempDir(), "neurodraw", "snapshots.json")
	}
	if filePermissions == 0 {
		filePermissions = 0o644
	}
	if dirPermissions == 0 {
		dirPermissions = 0o755
	}

	fs := &FileStore{
		maxRecords:      maxRecords,
		filePath:        filePath,
		filePermissions: filePermissions,
		dirPermissions:  dirPermissions,
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Prepend stores snapshot as the most recent record, trims the list and
// rewrites the file. On a write failure the in-memory list is left unchanged.
func (fs *FileStore) Prepend(_ context.Context, snapshot *models.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	next := make([]models.Snapshot, 0, len(fs.snapshots)+1)
	next = append(next, *snapshot)
	next = append(next, fs.snapshots...)
	if len(next) > fs.maxRecords {
		next = next[:fs.maxRecords]
	}

	if err := fs.write(next); err != nil {
		return err
	}
	fs.snapshots = next
	return nil
}

// List returns all retained snapshots, most recent first.
func (fs *FileStore) List(_ context.Context) ([]models.Snapshot, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	out := make([]models.Snapshot, len(fs.snapshots))
	copy(out, fs.snapshots)
	return out, nil
}

// Get retrieves a snapshot by ID.
func (fs *FileStore) Get(_ context.Context, id string) (*models.Snapshot, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	for i := range fs.snapshots {
		if fs.snapshots[i].ID == id {
			snap := fs.snapshots[i]
			return &snap, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Close is a no-op; every write is already on disk.
func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) write(snapshots []models.Snapshot) error {
	// Create data directory if needed
	dir := filepath.Dir(fs.filePath)
	if err := os.MkdirAll(dir, fs.dirPermissions); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data := PersistenceFile{
		Version:   "1.0",
		SavedAt:   time.Now(),
		Snapshots: snapshots,
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Write to temporary file first (atomic write)
	tempPath := fs.filePath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, fs.filePermissions); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tempPath, fs.filePath); err != nil {
		_ = os.Remove(tempPath) // Clean up temp file on rename failure
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

func (fs *FileStore) load() error {
	// Clean up any stale temp files from previous crashes
	tempPath := fs.filePath + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	jsonData, err := os.ReadFile(fs.filePath)
	if os.IsNotExist(err) {
		// No file to load, start fresh
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data PersistenceFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	fs.snapshots = data.Snapshots
	if len(fs.snapshots) > fs.maxRecords {
		fs.snapshots = fs.snapshots[:fs.maxRecords]
	}
	return nil
}
