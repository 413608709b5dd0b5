// Package snapshot persists the last-known job mapping between runs.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ganesh070723/job-change-detector/internal/models"
)

// Store loads and saves the job mapping used as the diff baseline.
type Store interface {
	Load() (models.Jobs, error)
	Save(models.Jobs) error
}

// FileStore keeps the mapping as one indented JSON object on disk.
// It assumes a single writer; running two instances against the same
// file is not supported.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted mapping. A missing file means no prior
// state and returns an empty mapping with a nil error. An unreadable
// or unparsable file also returns an empty mapping, alongside an error
// the caller is expected to log and otherwise ignore.
func (s *FileStore) Load() (models.Jobs, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Jobs{}, nil
	}
	if err != nil {
		return models.Jobs{}, fmt.Errorf("snapshot: read %s: %w", s.path, err)
	}

	jobs := models.Jobs{}
	if err := json.Unmarshal(data, &jobs); err != nil {
		return models.Jobs{}, fmt.Errorf("snapshot: decode %s: %w", s.path, err)
	}
	return jobs, nil
}

// Save writes the full mapping, overwriting any existing file.
func (s *FileStore) Save(jobs models.Jobs) error {
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", s.path, err)
	}
	return nil
}
