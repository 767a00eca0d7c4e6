package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	dom "Tasker/internal/domain"
)

// FileMirror keeps the task list in a JSON file.
type FileMirror struct {
	path string
	mu   sync.Mutex
}

func NewFileMirror(path string) *FileMirror {
	return &FileMirror{path: path}
}

func (m *FileMirror) Path() string { return m.path }

func (m *FileMirror) Load(ctx context.Context) ([]dom.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := os.Open(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var list []dom.Task
	if err := json.NewDecoder(f).Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

// Save writes to a temp file next to path and renames it into place.
func (m *FileMirror) Save(ctx context.Context, list []dom.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if list == nil {
		list = []dom.Task{}
	}
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, filepath.Base(m.path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(list); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}
