package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/rpupo63/blog-admin-backend/errs"
)

// Memory keeps files in a map. Used by tests and local tooling.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte

	// PutErr and DeleteErr, when set, are returned instead of touching the map.
	PutErr    error
	DeleteErr error
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) Put(_ context.Context, path string, body io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return errs.NewStorageError("upload", path, m.PutErr)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return errs.NewStorageError("read", path, err)
	}
	m.files[path] = buf.Bytes()
	return nil
}

func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return errs.NewStorageError("delete", path, m.DeleteErr)
	}
	delete(m.files, path)
	return nil
}

// Get returns a stored file's content.
func (m *Memory) Get(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	return b, ok
}

// Paths lists stored paths in order.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
