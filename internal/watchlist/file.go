package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every list in one JSON object on disk, key -> raw JSON
// array string, the way browser local storage holds them.  It is the
// CLI's local storage.
type FileStore struct {
	listStore
}

// NewFileStore uses path, creating it on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{listStore{kv: &fileKV{path: path}}}
}

type fileKV struct {
	mu   sync.Mutex
	path string
}

func (f *fileKV) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		// Unreadable file: start over rather than fail every call.
		return map[string]string{}, nil
	}
	return m, nil
}

func (f *fileKV) get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (f *fileKV) update(_ context.Context, key string, fn func(string) (string, bool)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.load()
	if err != nil {
		return err
	}
	next, changed := fn(m[key])
	if !changed {
		return nil
	}
	m[key] = next
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	// Write to a temp file and rename so a crash never leaves half a file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
