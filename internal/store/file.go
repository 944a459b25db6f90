package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists recent push records as JSON on disk, for deployments
// without a database. Writes go through a temp file and rename.
type FileStore struct {
	path  string
	limit int
}

func NewFileStore(path string, limit int) *FileStore {
	if limit <= 0 {
		limit = 100
	}
	return &FileStore{path: path, limit: limit}
}

// Load reads the stored records; a missing file yields nil, nil.
func (f *FileStore) Load() ([]PushRecord, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var records []PushRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Append adds a record at the front and rewrites the file, keeping at most
// the configured number of records.
func (f *FileStore) Append(rec PushRecord) error {
	records, err := f.Load()
	if err != nil {
		return err
	}
	records = append([]PushRecord{rec}, records...)
	if len(records) > f.limit {
		records = records[:f.limit]
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
